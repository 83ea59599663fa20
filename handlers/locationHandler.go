package handlers

import (
	"TheraBill/models"
	"TheraBill/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	service *services.LocationService
}

func NewLocationHandler(service *services.LocationService) *LocationHandler {
	return &LocationHandler{service: service}
}

func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var location models.Location
	if err := c.ShouldBindJSON(&location); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if location.Name == "" {
		c.JSON(400, gin.H{"error": "Location name is required"})
		return
	}
	if err := h.service.Create(c, &location); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, location)
}

func (h *LocationHandler) GetAllLocations(c *gin.Context) {
	locations, err := h.service.GetAll(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, locations)
}

func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("location_id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid location ID"})
		return
	}
	if err := h.service.Delete(c, id); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(204, gin.H{"message": "Location deleted"})
}
