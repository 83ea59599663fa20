package handlers

import (
	"TheraBill/extraction"
	"TheraBill/services"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExtractionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := services.NewExtractionService(extraction.NewExtractor(nil), nil, nil, nil, nil)
	handler := NewExtractionHandler(service)
	router := gin.New()
	router.POST("/extract", handler.Extract)
	return router
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestExtractRejectsEmptyRequest(t *testing.T) {
	router := newExtractionRouter()
	body, contentType := multipartBody(t, nil, "", "", nil)

	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractRejectsTextAndPDFTogether(t *testing.T) {
	router := newExtractionRouter()
	body, contentType := multipartBody(t, map[string]string{"text": "Name: Jane Public", "vendor": "OneCall"}, "pdf", "referral.pdf", []byte("%PDF-1.4"))

	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not both")
}

func TestExtractRejectsNonPDFUpload(t *testing.T) {
	router := newExtractionRouter()
	body, contentType := multipartBody(t, map[string]string{"vendor": "OneCall"}, "pdf", "notes.txt", []byte("hello"))

	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractRequiresVendorForPDF(t *testing.T) {
	router := newExtractionRouter()
	body, contentType := multipartBody(t, nil, "pdf", "referral.pdf", []byte("%PDF-1.4"))

	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Vendor is required")
}

func TestExtractRejectsUnknownVendor(t *testing.T) {
	router := newExtractionRouter()
	body, contentType := multipartBody(t, map[string]string{"vendor": "unitedhealth"}, "pdf", "referral.pdf", []byte("%PDF-1.4"))

	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown vendor tag")
}

func TestExtractFromTextReturnsFieldMapping(t *testing.T) {
	router := newExtractionRouter()
	body, contentType := multipartBody(t, map[string]string{"text": "Name: Jane Public\nCase ID: CA-9"}, "", "", nil)

	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Vendor string             `json:"vendor"`
		Fields map[string]*string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Generic", response.Vendor)
	require.NotNil(t, response.Fields["patient_name"])
	assert.Equal(t, "Jane Public", *response.Fields["patient_name"])
	require.NotNil(t, response.Fields["case_id"])
	assert.Equal(t, "CA-9", *response.Fields["case_id"])
	// Misses are present as nulls.
	value, ok := response.Fields["claim_number"]
	assert.True(t, ok)
	assert.Nil(t, value)
}

func TestImportRejectsNonCSVUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewImportHandler(nil)
	router := gin.New()
	router.POST("/import/appointments/csv", handler.ImportAppointmentsCSV)

	body, contentType := multipartBody(t, nil, "file", "schedule.xlsx", []byte("data"))
	req := httptest.NewRequest(http.MethodPost, "/import/appointments/csv", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "must be a CSV")
}
