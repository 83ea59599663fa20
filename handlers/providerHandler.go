package handlers

import (
	"TheraBill/models"
	"TheraBill/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ProviderHandler struct {
	service *services.ProviderService
}

func NewProviderHandler(service *services.ProviderService) *ProviderHandler {
	return &ProviderHandler{service: service}
}

func (h *ProviderHandler) CreateProvider(c *gin.Context) {
	var provider models.Provider
	if err := c.ShouldBindJSON(&provider); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if provider.Name == "" {
		c.JSON(400, gin.H{"error": "Provider name is required"})
		return
	}
	if err := h.service.Create(c, &provider); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, provider)
}

func (h *ProviderHandler) GetProviderByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("provider_id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid provider ID"})
		return
	}
	provider, err := h.service.GetByID(c, id)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if provider == nil {
		c.JSON(404, gin.H{"error": "Provider not found"})
		return
	}
	c.JSON(200, provider)
}

func (h *ProviderHandler) GetAllProviders(c *gin.Context) {
	providers, err := h.service.GetAll(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, providers)
}

func (h *ProviderHandler) UpdateProvider(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("provider_id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid provider ID"})
		return
	}
	var provider models.Provider
	if err := c.ShouldBindJSON(&provider); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	provider.ID = id
	if err := h.service.Update(c, &provider); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, provider)
}

func (h *ProviderHandler) DeleteProvider(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("provider_id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid provider ID"})
		return
	}
	if err := h.service.Delete(c, id); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(204, gin.H{"message": "Provider deleted"})
}
