package services

import (
	"TheraBill/models"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImportPatientStore struct {
	fakePatientStore
}

func (f *fakeImportPatientStore) FindByClientNumber(_ context.Context, clientNumber string) (*models.Patient, error) {
	if clientNumber == "" {
		return nil, nil
	}
	for _, p := range f.patients {
		if p.ClientNumber == clientNumber {
			return p, nil
		}
	}
	return nil, nil
}

type fakeImportProviderStore struct {
	fakeProviderStore
}

func (f *fakeImportProviderStore) FindByCode(_ context.Context, code string) (*models.Provider, error) {
	for _, p := range f.providers {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

type fakeLocationStore struct {
	locations []*models.Location
	nextID    int64
}

func (f *fakeLocationStore) FindByName(_ context.Context, name string) (*models.Location, error) {
	for _, l := range f.locations {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, nil
}

func (f *fakeLocationStore) Create(_ context.Context, location *models.Location) error {
	f.nextID++
	location.ID = f.nextID
	f.locations = append(f.locations, location)
	return nil
}

type fakeImportAppointmentStore struct {
	appointments []*models.Appointment
	invalidated  bool
	nextID       int64
}

func (f *fakeImportAppointmentStore) CreateBatchRow(_ context.Context, appointment *models.Appointment) error {
	f.nextID++
	appointment.ID = f.nextID
	f.appointments = append(f.appointments, appointment)
	return nil
}

func (f *fakeImportAppointmentStore) InvalidateAll(_ context.Context) error {
	f.invalidated = true
	return nil
}

type importFixture struct {
	service      *ImportService
	patients     *fakeImportPatientStore
	providers    *fakeImportProviderStore
	locations    *fakeLocationStore
	appointments *fakeImportAppointmentStore
}

func newImportFixture() *importFixture {
	patients := &fakeImportPatientStore{}
	providers := &fakeImportProviderStore{}
	locations := &fakeLocationStore{}
	appointments := &fakeImportAppointmentStore{}
	return &importFixture{
		service:      NewImportService(patients, providers, locations, appointments),
		patients:     patients,
		providers:    providers,
		locations:    locations,
		appointments: appointments,
	}
}

const importHeader = "Client,Client Number,Mobile,Sex,Gender Identity,Postcode,State,Practitioner,Location,Date,End Time,Appointment Type,Type,Invoice,Appointment Notes,Appointment Flag,Status\n"

func TestImportCSVCreatesAppointmentPerRow(t *testing.T) {
	f := newImportFixture()
	csvData := importHeader +
		"Jane Public,C100,0400111222,F,,4000,QLD,JSMITH,Main Clinic,14/03/2024 09:30,10:15,Standard,EPC,INV-1,,,completed\n" +
		"Bob Stone,C200,,M,,4001,QLD,JSMITH,Main Clinic,15/03/2024 10:00,10:45,Standard,Private,INV-2,,,scheduled\n"

	stats, err := f.service.ImportCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalProcessed)
	assert.Equal(t, 2, stats.Created)
	assert.Equal(t, 0, stats.Errors)
	require.Len(t, f.appointments.appointments, 2)
	assert.True(t, f.appointments.invalidated)

	appt := f.appointments.appointments[0]
	require.NotNil(t, appt.AppointmentDateTime)
	assert.Equal(t, time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC), *appt.AppointmentDateTime)
	assert.Equal(t, "10:15", appt.EndTime)
	assert.Equal(t, "completed", appt.Status)
	assert.Equal(t, "EPC", appt.ClientType)
	assert.Equal(t, "INV-1", appt.InvoiceNumber)

	// Two distinct patients, one shared provider and location.
	assert.Len(t, f.patients.patients, 2)
	assert.Len(t, f.providers.providers, 1)
	assert.Equal(t, "JSMITH", f.providers.providers[0].Code)
	assert.Len(t, f.locations.locations, 1)
}

func TestImportCSVKeysPatientsByClientNumber(t *testing.T) {
	f := newImportFixture()
	csvData := importHeader +
		"Jane Public,C100,,F,,,,JSMITH,,14/03/2024,,,,,,,completed\n" +
		"Jane A Public,C100,,F,,,,JSMITH,,15/03/2024,,,,,,,completed\n"

	stats, err := f.service.ImportCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Created)
	assert.Len(t, f.patients.patients, 1)
	assert.Equal(t, f.appointments.appointments[0].PatientID, f.appointments.appointments[1].PatientID)
}

func TestImportCSVRowErrorsDoNotAbortRun(t *testing.T) {
	f := newImportFixture()
	csvData := importHeader +
		",C100,,F,,,,JSMITH,,14/03/2024,,,,,,,completed\n" +
		"Bob Stone,C200,,M,,,,JSMITH,,not-a-date,,,,,,,scheduled\n" +
		"Jane Public,C300,,F,,,,JSMITH,,16/03/2024,,,,,,,scheduled\n"

	stats, err := f.service.ImportCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalProcessed)
	assert.Equal(t, 1, stats.Created)
	assert.Equal(t, 2, stats.Errors)
	assert.Len(t, stats.ErrorDetails, 2)
	assert.Contains(t, stats.ErrorDetails[0], "row 2")
	assert.Contains(t, stats.ErrorDetails[1], "not-a-date")
}

func TestImportCSVStripsByteOrderMark(t *testing.T) {
	f := newImportFixture()
	csvData := "\uFEFF" + importHeader +
		"Jane Public,C100,,F,,,,JSMITH,,14/03/2024,,,,,,,completed\n"

	stats, err := f.service.ImportCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Created)
}

func TestImportCSVBlankStatusDefaultsToPending(t *testing.T) {
	f := newImportFixture()
	csvData := importHeader +
		"Jane Public,C100,,F,,,,JSMITH,,14/03/2024,,,,,,,\n"

	stats, err := f.service.ImportCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	require.Equal(t, 1, stats.Created)
	assert.Equal(t, "Pending", f.appointments.appointments[0].Status)
}

func TestImportCSVMissingClientColumnRejected(t *testing.T) {
	f := newImportFixture()
	_, err := f.service.ImportCSV(context.Background(), strings.NewReader("Patient,Date\nJane,14/03/2024\n"))
	assert.Error(t, err)
}

func TestParseImportDateTimeLayouts(t *testing.T) {
	cases := []struct {
		value string
		want  time.Time
	}{
		{"14/03/2024", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"2024-03-14", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"14-03-2024", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"14 Mar 2024", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"14 March 2024", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"14/03/2024 2:30 PM", time.Date(2024, 3, 14, 14, 30, 0, 0, time.UTC)},
		{"14/03/2024 14.30", time.Date(2024, 3, 14, 14, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := parseImportDateTime(tc.value)
		require.NoError(t, err, "value %q", tc.value)
		assert.Equal(t, tc.want, *got, "value %q", tc.value)
	}

	_, err := parseImportDateTime("yesterday")
	assert.Error(t, err)
	_, err = parseImportDateTime("")
	assert.Error(t, err)
}

func TestNormalizeImportTime(t *testing.T) {
	assert.Equal(t, "10:15", normalizeImportTime("10:15"))
	assert.Equal(t, "14:30", normalizeImportTime("2:30 PM"))
	assert.Equal(t, "14:30", normalizeImportTime("14.30"))
	assert.Equal(t, "", normalizeImportTime(""))
	assert.Equal(t, "soonish", normalizeImportTime("soonish"))
}
