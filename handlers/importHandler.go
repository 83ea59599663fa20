package handlers

import (
	"TheraBill/services"
	"log"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

type ImportHandler struct {
	service *services.ImportService
}

func NewImportHandler(service *services.ImportService) *ImportHandler {
	return &ImportHandler{service: service}
}

// ImportAppointmentsCSV loads an uploaded schedule export into the
// appointments table and returns per-row import statistics.
func (h *ImportHandler) ImportAppointmentsCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(400, gin.H{"error": "No CSV file provided"})
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		c.JSON(400, gin.H{"error": "Uploaded file must be a CSV"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("Failed to close uploaded CSV: %v", err)
		}
	}()

	stats, err := h.service.ImportCSV(c, file)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, stats)
}
