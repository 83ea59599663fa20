package services

import (
	"TheraBill/models"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
	"time"
)

// Date layouts tried, in order, against the schedule export's Date column.
// Day-first layouts come first because that is what the export produces;
// the rest cover hand-edited files.
var importDateLayouts = []string{
	"2/1/2006",
	"2006-01-02",
	"2-1-2006",
	"1/2/2006",
	"2 Jan 2006",
	"2 January 2006",
}

// Time layouts tried against the Date column's time component and the
// End Time column.
var importTimeLayouts = []string{
	"15:04",
	"3:04 PM",
	"15.04",
	"3.04 PM",
}

// ImportStats accounts for one CSV import run.
type ImportStats struct {
	TotalProcessed int      `json:"total_processed"`
	Created        int      `json:"created"`
	Errors         int      `json:"errors"`
	ErrorDetails   []string `json:"error_details,omitempty"`
}

// ImportPatientStore is the patient surface the importer needs.
type ImportPatientStore interface {
	FindByClientNumber(ctx context.Context, clientNumber string) (*models.Patient, error)
	FindByName(ctx context.Context, firstName, lastName string) (*models.Patient, error)
	Create(ctx context.Context, patient *models.Patient) error
}

// ImportProviderStore is the provider surface the importer needs.
type ImportProviderStore interface {
	FindByCode(ctx context.Context, code string) (*models.Provider, error)
	Create(ctx context.Context, provider *models.Provider) error
}

// ImportLocationStore is the location surface the importer needs.
type ImportLocationStore interface {
	FindByName(ctx context.Context, name string) (*models.Location, error)
	Create(ctx context.Context, location *models.Location) error
}

// ImportAppointmentStore is the appointment surface the importer needs.
type ImportAppointmentStore interface {
	CreateBatchRow(ctx context.Context, appointment *models.Appointment) error
	InvalidateAll(ctx context.Context) error
}

// ImportService loads practice-management schedule exports into the
// appointments table, creating patients, providers, and locations as it
// encounters them.
type ImportService struct {
	patients     ImportPatientStore
	providers    ImportProviderStore
	locations    ImportLocationStore
	appointments ImportAppointmentStore
}

func NewImportService(
	patients ImportPatientStore,
	providers ImportProviderStore,
	locations ImportLocationStore,
	appointments ImportAppointmentStore,
) *ImportService {
	return &ImportService{
		patients:     patients,
		providers:    providers,
		locations:    locations,
		appointments: appointments,
	}
}

// ImportCSV reads a schedule export and creates one appointment per valid
// row. Row-level failures are counted and detailed in the stats; they do
// not abort the run.
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader) (*ImportStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		columns[strings.TrimSpace(name)] = i
	}
	if _, ok := columns["Client"]; !ok {
		return nil, fmt.Errorf("CSV is missing the Client column")
	}

	stats := &ImportStats{}
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			stats.Errors++
			stats.ErrorDetails = append(stats.ErrorDetails, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		stats.TotalProcessed++
		if err := s.importRow(ctx, columns, record); err != nil {
			stats.Errors++
			stats.ErrorDetails = append(stats.ErrorDetails, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		stats.Created++
	}

	if err := s.appointments.InvalidateAll(ctx); err != nil {
		log.Printf("Failed to invalidate appointment caches after import: %v", err)
	}
	return stats, nil
}

func (s *ImportService) importRow(ctx context.Context, columns map[string]int, record []string) error {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	clientName := cell("Client")
	if clientName == "" {
		return fmt.Errorf("empty Client value")
	}

	patient, err := s.resolvePatient(ctx, clientName, cell)
	if err != nil {
		return err
	}

	provider, err := s.resolveProvider(ctx, cell("Practitioner"))
	if err != nil {
		return err
	}

	locationID, err := s.resolveLocation(ctx, cell("Location"))
	if err != nil {
		return err
	}

	appointmentTime, err := parseImportDateTime(cell("Date"))
	if err != nil {
		return err
	}

	status := cell("Status")
	if status == "" {
		status = "Pending"
	}

	appointment := &models.Appointment{
		PatientID:           patient.ID,
		ProviderID:          provider.ID,
		LocationID:          locationID,
		AppointmentDateTime: appointmentTime,
		EndTime:             normalizeImportTime(cell("End Time")),
		AppointmentType:     cell("Appointment Type"),
		InvoiceNumber:       cell("Invoice"),
		Notes:               cell("Appointment Notes"),
		Flag:                cell("Appointment Flag"),
		Status:              status,
		ClientType:          cell("Type"),
	}
	return s.appointments.CreateBatchRow(ctx, appointment)
}

// resolvePatient keys on client number when present, falls back to name
// match, and creates the patient from the row's demographic columns when
// neither hits.
func (s *ImportService) resolvePatient(ctx context.Context, clientName string, cell func(string) string) (*models.Patient, error) {
	clientNumber := cell("Client Number")
	if clientNumber != "" {
		patient, err := s.patients.FindByClientNumber(ctx, clientNumber)
		if err != nil {
			return nil, err
		}
		if patient != nil {
			return patient, nil
		}
	}

	firstName, middleName, lastName := SplitPatientName(clientName)
	patient, err := s.patients.FindByName(ctx, firstName, lastName)
	if err != nil {
		return nil, err
	}
	if patient != nil {
		return patient, nil
	}

	patient = &models.Patient{
		FirstName:      firstName,
		MiddleName:     middleName,
		LastName:       lastName,
		Sex:            cell("Sex"),
		GenderIdentity: cell("Gender Identity"),
		Postcode:       cell("Postcode"),
		State:          cell("State"),
		Phone:          cell("Mobile"),
		ClientNumber:   clientNumber,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *ImportService) resolveProvider(ctx context.Context, code string) (*models.Provider, error) {
	if code == "" {
		return nil, fmt.Errorf("empty Practitioner value")
	}
	provider, err := s.providers.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if provider != nil {
		return provider, nil
	}

	provider = &models.Provider{Name: code, Code: code}
	if err := s.providers.Create(ctx, provider); err != nil {
		return nil, err
	}
	return provider, nil
}

func (s *ImportService) resolveLocation(ctx context.Context, name string) (*int64, error) {
	if name == "" {
		return nil, nil
	}
	location, err := s.locations.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if location == nil {
		location = &models.Location{Name: name}
		if err := s.locations.Create(ctx, location); err != nil {
			return nil, err
		}
	}
	return &location.ID, nil
}

// parseImportDateTime parses the Date column, which may or may not carry
// a time component after the date.
func parseImportDateTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, fmt.Errorf("empty Date value")
	}
	for _, dateLayout := range importDateLayouts {
		for _, timeLayout := range importTimeLayouts {
			if parsed, err := time.Parse(dateLayout+" "+timeLayout, value); err == nil {
				return &parsed, nil
			}
		}
		if parsed, err := time.Parse(dateLayout, value); err == nil {
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("unparseable Date value %q", value)
}

// normalizeImportTime reformats a time cell to 24-hour HH:MM for storage.
// Unparseable values are kept verbatim so no schedule data is lost.
func normalizeImportTime(value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range importTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("15:04")
		}
	}
	return value
}
