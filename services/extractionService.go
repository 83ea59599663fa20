package services

import (
	"TheraBill/extraction"
	"TheraBill/models"
	"TheraBill/utils"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// extractedDateLayout matches the month/day/year strings the vendor
// documents carry. Go's "1/2" layout accepts both padded and unpadded
// month and day.
const extractedDateLayout = "1/2/2006"

// PatientStore is the patient persistence surface the resolver needs.
// Satisfied by repositories.PatientRepository; tests substitute fakes.
type PatientStore interface {
	FindByName(ctx context.Context, firstName, lastName string) (*models.Patient, error)
	Create(ctx context.Context, patient *models.Patient) error
	Update(ctx context.Context, patient *models.Patient) error
}

// ProviderStore is the provider persistence surface the resolver needs.
type ProviderStore interface {
	FindByName(ctx context.Context, name string) (*models.Provider, error)
	Create(ctx context.Context, provider *models.Provider) error
}

// AuthorizationStore is the authorization persistence surface the
// resolver needs.
type AuthorizationStore interface {
	Create(ctx context.Context, authorization *models.Authorization) error
}

// SourceAttachment carries the document the extracted fields came from.
// PDFPath wins when both are set; RawText is rendered into a PDF before
// being stored.
type SourceAttachment struct {
	PDFPath string
	RawText string
}

// SaveResult is the structured outcome of an extraction save. Failure is
// non-empty when nothing was persisted. The UsedDefault flags expose the
// silent fallbacks (visits=1, eval date=now) so callers can surface them.
type SaveResult struct {
	PatientID            int64  `json:"patient_id"`
	ProviderID           int64  `json:"provider_id,omitempty"`
	AuthorizationID      int64  `json:"authorization_id,omitempty"`
	AuthorizationCreated bool   `json:"authorization_created"`
	MissingReason        string `json:"missing_reason,omitempty"`
	UsedDefaultVisits    bool   `json:"used_default_visits"`
	UsedDefaultEvalDate  bool   `json:"used_default_eval_date"`
	Failure              string `json:"failure,omitempty"`
}

// Message renders the result as the human-readable status line shown in
// the confirmation UI.
func (r *SaveResult) Message() string {
	if r.Failure != "" {
		return fmt.Sprintf("Error saving to database: %s", r.Failure)
	}
	if r.AuthorizationCreated {
		return fmt.Sprintf("Successfully saved patient and authorization information. Patient ID: %d, Authorization ID: %d", r.PatientID, r.AuthorizationID)
	}
	return fmt.Sprintf("Successfully saved patient information. Patient ID: %d. No authorization created: missing %s.", r.PatientID, r.MissingReason)
}

// ExtractionService runs vendor documents through the extractor and
// resolves the extracted fields into patient, provider, and authorization
// rows.
type ExtractionService struct {
	extractor      *extraction.Extractor
	acquirer       *extraction.TextAcquirer
	patients       PatientStore
	providers      ProviderStore
	authorizations AuthorizationStore
}

func NewExtractionService(
	extractor *extraction.Extractor,
	acquirer *extraction.TextAcquirer,
	patients PatientStore,
	providers ProviderStore,
	authorizations AuthorizationStore,
) *ExtractionService {
	return &ExtractionService{
		extractor:      extractor,
		acquirer:       acquirer,
		patients:       patients,
		providers:      providers,
		authorizations: authorizations,
	}
}

// ExtractFromPDF acquires the document text for the vendor and returns
// the field mapping, misses included as nulls.
func (s *ExtractionService) ExtractFromPDF(ctx context.Context, path string, vendor extraction.Vendor) map[string]*string {
	text := s.acquirer.AcquireText(ctx, path, vendor)
	return s.extractor.ExtractDocument(text, vendor)
}

// ExtractFromText runs the vendor-agnostic pattern set over raw text.
func (s *ExtractionService) ExtractFromText(text string) map[string]*string {
	return s.extractor.Extract(text, extraction.Generic)
}

// Save resolves the extracted fields into persisted rows. The patient is
// always saved (placeholder names when the document yielded none); the
// authorization is created only when a provider could be resolved. The
// three entity groups commit independently, so a failure partway through
// can leave earlier rows in place.
func (s *ExtractionService) Save(ctx context.Context, fields map[string]*string, vendor extraction.Vendor, source SourceAttachment) *SaveResult {
	result := &SaveResult{}

	firstName, middleName, lastName := SplitPatientName(fieldValue(fields, "patient_name"))

	patient, err := s.resolvePatient(ctx, fields, firstName, middleName, lastName)
	if err != nil {
		result.Failure = err.Error()
		return result
	}
	result.PatientID = patient.ID

	providerName := fieldValue(fields, "provider_name")
	if providerName == "" {
		result.MissingReason = "provider"
		return result
	}

	provider, err := s.resolveProvider(ctx, fields, providerName)
	if err != nil {
		result.Failure = err.Error()
		return result
	}
	result.ProviderID = provider.ID

	authorization := s.buildAuthorization(fields, vendor, patient.ID, provider.ID, result)
	authorization.SourceDocument = s.loadAttachment(source)

	if err := s.authorizations.Create(ctx, authorization); err != nil {
		result.Failure = err.Error()
		return result
	}
	result.AuthorizationID = authorization.ID
	result.AuthorizationCreated = true
	return result
}

func (s *ExtractionService) resolvePatient(ctx context.Context, fields map[string]*string, firstName, middleName, lastName string) (*models.Patient, error) {
	patient, err := s.patients.FindByName(ctx, firstName, lastName)
	if err != nil {
		return nil, err
	}

	dob := parseExtractedDate(fieldValue(fields, "patient_dob"))
	address := fieldValue(fields, "patient_address")
	phone := fieldValue(fields, "patient_phone")
	clientNumber := fieldValue(fields, "case_id")

	if patient != nil {
		if middleName != "" {
			patient.MiddleName = middleName
		}
		if dob != nil {
			patient.DateOfBirth = dob
		}
		if address != "" {
			patient.Address = address
		}
		if phone != "" {
			patient.Phone = phone
		}
		if clientNumber != "" {
			patient.ClientNumber = clientNumber
		}
		if err := s.patients.Update(ctx, patient); err != nil {
			return nil, err
		}
		return patient, nil
	}

	patient = &models.Patient{
		FirstName:    firstName,
		MiddleName:   middleName,
		LastName:     lastName,
		ClientNumber: clientNumber,
		DateOfBirth:  dob,
		Address:      address,
		Phone:        phone,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *ExtractionService) resolveProvider(ctx context.Context, fields map[string]*string, name string) (*models.Provider, error) {
	provider, err := s.providers.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if provider != nil {
		return provider, nil
	}

	provider = &models.Provider{
		Name:    name,
		Address: fieldValue(fields, "provider_address"),
		Phone:   fieldValue(fields, "provider_phone"),
		Fax:     fieldValue(fields, "provider_fax"),
	}
	if err := s.providers.Create(ctx, provider); err != nil {
		return nil, err
	}
	return provider, nil
}

func (s *ExtractionService) buildAuthorization(fields map[string]*string, vendor extraction.Vendor, patientID, providerID int64, result *SaveResult) *models.Authorization {
	visits, usedDefault := resolveVisitCount(fields, vendor)
	result.UsedDefaultVisits = usedDefault

	evalDate, usedDefault := resolveEvaluationDate(fields, vendor)
	result.UsedDefaultEvalDate = usedDefault

	serviceText := fieldValue(fields, "service_type")
	if serviceText == "" {
		serviceText = fieldValue(fields, "procedure")
	}

	notes := ""
	if caseID := fieldValue(fields, "case_id"); caseID != "" {
		notes = fmt.Sprintf("Case ID: %s", caseID)
	}

	return &models.Authorization{
		PatientID:             patientID,
		ProviderID:            providerID,
		ClaimNumber:           fieldValue(fields, "claim_number"),
		NumAuthorizedVisits:   visits,
		ServiceType:           MapServiceType(serviceText),
		InitialEvaluationDate: evalDate,
		Status:                models.AuthStatusPending,
		Notes:                 notes,
	}
}

func (s *ExtractionService) loadAttachment(source SourceAttachment) []byte {
	if source.PDFPath != "" {
		data, err := os.ReadFile(source.PDFPath)
		if err != nil {
			log.Printf("Failed to read source PDF %s: %v", source.PDFPath, err)
			return nil
		}
		return data
	}
	if source.RawText != "" {
		data, err := utils.RenderTextPDF(source.RawText)
		if err != nil {
			log.Printf("Failed to render source text to PDF: %v", err)
			return nil
		}
		return data
	}
	return nil
}

// SplitPatientName splits a full name on whitespace: first token, last
// token, middle tokens joined. An empty name resolves to placeholder
// "Unknown" names.
func SplitPatientName(name string) (first, middle, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "Unknown", "", "Unknown"
	case 1:
		return parts[0], "", "Unknown"
	case 2:
		return parts[0], "", parts[1]
	default:
		return parts[0], strings.Join(parts[1:len(parts)-1], " "), parts[len(parts)-1]
	}
}

// MapServiceType normalizes free service text to one of the service type
// constants via case-insensitive substring containment. Unmatched text
// maps to other.
func MapServiceType(text string) string {
	lowered := strings.ToLower(text)
	switch {
	case strings.Contains(lowered, "physical therapy") || strings.Contains(lowered, "pt"):
		return models.ServicePhysicalTherapy
	case strings.Contains(lowered, "occupational therapy") || strings.Contains(lowered, "ot"):
		return models.ServiceOccupationalTherapy
	case strings.Contains(lowered, "speech therapy") || strings.Contains(lowered, "st"):
		return models.ServiceSpeechTherapy
	default:
		return models.ServiceOther
	}
}

// visitCountFields returns the vendor's field-name fallback chain for the
// authorized visit count.
func visitCountFields(vendor extraction.Vendor) []string {
	switch vendor {
	case extraction.HomeLink:
		return []string{"authorized_sessions", "total_visits"}
	case extraction.Corvel:
		return []string{"certified_visits", "authorized_visits"}
	default:
		return []string{"authorized_sessions"}
	}
}

// evaluationDateFields returns the vendor's field-name fallback chain for
// the initial evaluation date.
func evaluationDateFields(vendor extraction.Vendor) []string {
	switch vendor {
	case extraction.HomeLink:
		return []string{"start_date", "authorization_date"}
	case extraction.Corvel:
		return []string{"effective_date"}
	default:
		return []string{"injury_date"}
	}
}

func resolveVisitCount(fields map[string]*string, vendor extraction.Vendor) (int, bool) {
	for _, name := range visitCountFields(vendor) {
		value := fieldValue(fields, name)
		if value == "" {
			continue
		}
		visits, err := strconv.Atoi(value)
		if err != nil {
			log.Printf("Non-numeric visit count %q in field %s, defaulting to 1", value, name)
			return 1, true
		}
		return visits, false
	}
	return 1, true
}

func resolveEvaluationDate(fields map[string]*string, vendor extraction.Vendor) (time.Time, bool) {
	for _, name := range evaluationDateFields(vendor) {
		value := fieldValue(fields, name)
		if value == "" {
			continue
		}
		if parsed := parseExtractedDate(value); parsed != nil {
			return *parsed, false
		}
	}
	return time.Now().UTC(), true
}

// parseExtractedDate parses a month/day/year date string. Failures log a
// warning and return nil rather than aborting the save.
func parseExtractedDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	parsed, err := time.Parse(extractedDateLayout, value)
	if err != nil {
		log.Printf("Failed to parse extracted date %q: %v", value, err)
		return nil
	}
	return &parsed
}

func fieldValue(fields map[string]*string, name string) string {
	if value, ok := fields[name]; ok && value != nil {
		return strings.TrimSpace(*value)
	}
	return ""
}
