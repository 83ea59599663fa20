package handlers

import (
	"TheraBill/extraction"
	"TheraBill/services"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

type ExtractionHandler struct {
	service *services.ExtractionService
}

func NewExtractionHandler(service *services.ExtractionService) *ExtractionHandler {
	return &ExtractionHandler{service: service}
}

// extractionInput is the validated input of one extraction request:
// either an uploaded PDF spooled to a temp file, or raw pasted text.
type extractionInput struct {
	pdfPath string
	rawText string
	vendor  extraction.Vendor
	cleanup func()
}

// Extract runs the document or text through the pattern library and
// returns the field mapping, misses included as nulls, for the
// confirmation display.
func (h *ExtractionHandler) Extract(c *gin.Context) {
	input, ok := h.parseInput(c)
	if !ok {
		return
	}
	defer input.cleanup()

	var fields map[string]*string
	if input.pdfPath != "" {
		fields = h.service.ExtractFromPDF(c, input.pdfPath, input.vendor)
	} else {
		fields = h.service.ExtractFromText(input.rawText)
	}
	c.JSON(200, gin.H{"vendor": input.vendor.String(), "fields": fields})
}

// ExtractAndSave runs extraction and resolves the fields into patient,
// provider, and authorization rows.
func (h *ExtractionHandler) ExtractAndSave(c *gin.Context) {
	input, ok := h.parseInput(c)
	if !ok {
		return
	}
	defer input.cleanup()

	var fields map[string]*string
	source := services.SourceAttachment{}
	if input.pdfPath != "" {
		fields = h.service.ExtractFromPDF(c, input.pdfPath, input.vendor)
		source.PDFPath = input.pdfPath
	} else {
		fields = h.service.ExtractFromText(input.rawText)
		source.RawText = input.rawText
	}

	result := h.service.Save(c, fields, input.vendor, source)
	status := 200
	if result.Failure != "" {
		status = 500
	}
	c.JSON(status, gin.H{"result": result, "message": result.Message(), "fields": fields})
}

// parseInput validates the request and spools an uploaded PDF to a temp
// file. On failure it writes the 4xx response and returns ok=false.
func (h *ExtractionHandler) parseInput(c *gin.Context) (*extractionInput, bool) {
	input := &extractionInput{vendor: extraction.Generic, cleanup: func() {}}

	text := strings.TrimSpace(c.PostForm("text"))
	fileHeader, err := c.FormFile("pdf")
	if text != "" && err == nil {
		c.JSON(400, gin.H{"error": "Please use either PDF upload OR text input, not both"})
		return nil, false
	}
	if text != "" {
		input.rawText = text
		return input, true
	}
	if err != nil {
		c.JSON(400, gin.H{"error": "No PDF file or text provided"})
		return nil, false
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		c.JSON(400, gin.H{"error": "Uploaded file must be a PDF"})
		return nil, false
	}

	vendorTag := strings.TrimSpace(c.PostForm("vendor"))
	if vendorTag == "" {
		c.JSON(400, gin.H{"error": "Vendor is required for PDF extraction"})
		return nil, false
	}
	vendor, err := extraction.ParseVendor(vendorTag)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return nil, false
	}
	input.vendor = vendor

	tmpFile, err := os.CreateTemp("", "tb-upload-*.pdf")
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to store upload: %v", err)})
		return nil, false
	}
	tmpPath := tmpFile.Name()
	if err := tmpFile.Close(); err != nil {
		log.Printf("Failed to close temp upload file %s: %v", tmpPath, err)
	}
	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		if removeErr := os.Remove(tmpPath); removeErr != nil {
			log.Printf("Failed to remove temp upload file %s: %v", tmpPath, removeErr)
		}
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to store upload: %v", err)})
		return nil, false
	}

	input.pdfPath = tmpPath
	input.cleanup = func() {
		if err := os.Remove(tmpPath); err != nil {
			log.Printf("Failed to remove temp upload file %s: %v", tmpPath, err)
		}
	}
	return input, true
}
