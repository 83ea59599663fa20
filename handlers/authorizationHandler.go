package handlers

import (
	"TheraBill/models"
	"TheraBill/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AuthorizationHandler struct {
	service *services.AuthorizationService
}

func NewAuthorizationHandler(service *services.AuthorizationService) *AuthorizationHandler {
	return &AuthorizationHandler{service: service}
}

func (h *AuthorizationHandler) CreateAuthorization(c *gin.Context) {
	var authorization models.Authorization
	if err := c.ShouldBindJSON(&authorization); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if authorization.Status == "" {
		authorization.Status = models.AuthStatusPending
	}
	if authorization.ServiceType == "" {
		authorization.ServiceType = models.ServiceOther
	}
	if err := h.service.Create(c, &authorization); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, authorization)
}

func (h *AuthorizationHandler) GetAuthorizationByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("authorization_id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid authorization ID"})
		return
	}
	authorization, err := h.service.GetByID(c, id)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if authorization == nil {
		c.JSON(404, gin.H{"error": "Authorization not found"})
		return
	}
	c.JSON(200, authorization)
}

func (h *AuthorizationHandler) GetAllAuthorizations(c *gin.Context) {
	authorizations, err := h.service.GetAll(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, authorizations)
}

func (h *AuthorizationHandler) GetAuthorizationsByPatient(c *gin.Context) {
	patientID, err := strconv.ParseInt(c.Param("patient_id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid patient ID"})
		return
	}
	authorizations, err := h.service.GetByPatient(c, patientID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, authorizations)
}

func (h *AuthorizationHandler) UpdateAuthorization(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("authorization_id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid authorization ID"})
		return
	}
	var authorization models.Authorization
	if err := c.ShouldBindJSON(&authorization); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	authorization.ID = id
	if err := h.service.Update(c, &authorization); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, authorization)
}

func (h *AuthorizationHandler) DeleteAuthorization(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("authorization_id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid authorization ID"})
		return
	}
	if err := h.service.Delete(c, id); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(204, gin.H{"message": "Authorization deleted"})
}
