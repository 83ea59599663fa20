package services

import (
	"TheraBill/extraction"
	"TheraBill/models"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePatientStore struct {
	patients []*models.Patient
	nextID   int64
}

func (f *fakePatientStore) FindByName(_ context.Context, firstName, lastName string) (*models.Patient, error) {
	for _, p := range f.patients {
		if p.FirstName == firstName && p.LastName == lastName {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePatientStore) Create(_ context.Context, patient *models.Patient) error {
	f.nextID++
	patient.ID = f.nextID
	f.patients = append(f.patients, patient)
	return nil
}

func (f *fakePatientStore) Update(_ context.Context, patient *models.Patient) error {
	for i, p := range f.patients {
		if p.ID == patient.ID {
			f.patients[i] = patient
			return nil
		}
	}
	return nil
}

type fakeProviderStore struct {
	providers []*models.Provider
	nextID    int64
}

func (f *fakeProviderStore) FindByName(_ context.Context, name string) (*models.Provider, error) {
	for _, p := range f.providers {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProviderStore) Create(_ context.Context, provider *models.Provider) error {
	f.nextID++
	provider.ID = f.nextID
	f.providers = append(f.providers, provider)
	return nil
}

type fakeAuthorizationStore struct {
	authorizations []*models.Authorization
	nextID         int64
}

func (f *fakeAuthorizationStore) Create(_ context.Context, authorization *models.Authorization) error {
	f.nextID++
	authorization.ID = f.nextID
	f.authorizations = append(f.authorizations, authorization)
	return nil
}

type resolverFixture struct {
	service        *ExtractionService
	patients       *fakePatientStore
	providers      *fakeProviderStore
	authorizations *fakeAuthorizationStore
}

func newResolverFixture() *resolverFixture {
	patients := &fakePatientStore{}
	providers := &fakeProviderStore{}
	authorizations := &fakeAuthorizationStore{}
	extractor := extraction.NewExtractor(extraction.NewPatternSet())
	return &resolverFixture{
		service:        NewExtractionService(extractor, nil, patients, providers, authorizations),
		patients:       patients,
		providers:      providers,
		authorizations: authorizations,
	}
}

func ptr(s string) *string { return &s }

func TestSaveCreatesPatientProviderAndAuthorization(t *testing.T) {
	f := newResolverFixture()
	fields := map[string]*string{
		"patient_name":        ptr("Jane Q Public"),
		"patient_dob":         ptr("05/02/1990"),
		"provider_name":       ptr("Acme PT"),
		"authorized_sessions": ptr("8"),
	}

	result := f.service.Save(context.Background(), fields, extraction.OneCall, SourceAttachment{})

	require.Empty(t, result.Failure)
	assert.True(t, result.AuthorizationCreated)
	require.Len(t, f.patients.patients, 1)
	patient := f.patients.patients[0]
	assert.Equal(t, "Jane", patient.FirstName)
	assert.Equal(t, "Q", patient.MiddleName)
	assert.Equal(t, "Public", patient.LastName)
	require.NotNil(t, patient.DateOfBirth)
	assert.Equal(t, time.Date(1990, 5, 2, 0, 0, 0, 0, time.UTC), *patient.DateOfBirth)

	require.Len(t, f.providers.providers, 1)
	assert.Equal(t, "Acme PT", f.providers.providers[0].Name)

	require.Len(t, f.authorizations.authorizations, 1)
	auth := f.authorizations.authorizations[0]
	assert.Equal(t, patient.ID, auth.PatientID)
	assert.Equal(t, 8, auth.NumAuthorizedVisits)
	assert.Equal(t, models.ServiceOther, auth.ServiceType)
	assert.Equal(t, models.AuthStatusPending, auth.Status)
	assert.False(t, result.UsedDefaultVisits)

	assert.Contains(t, result.Message(), "Successfully saved patient and authorization information")
}

func TestSaveSameNameUpdatesExistingPatient(t *testing.T) {
	f := newResolverFixture()
	first := map[string]*string{
		"patient_name":  ptr("Jane Public"),
		"provider_name": ptr("Acme PT"),
	}
	second := map[string]*string{
		"patient_name":    ptr("Jane Public"),
		"patient_address": ptr("456 Oak Ave, Springfield, IL 62704"),
		"provider_name":   ptr("Acme PT"),
	}

	r1 := f.service.Save(context.Background(), first, extraction.Generic, SourceAttachment{})
	r2 := f.service.Save(context.Background(), second, extraction.Generic, SourceAttachment{})

	require.Empty(t, r1.Failure)
	require.Empty(t, r2.Failure)
	assert.Equal(t, r1.PatientID, r2.PatientID)
	require.Len(t, f.patients.patients, 1)
	assert.Equal(t, "456 Oak Ave, Springfield, IL 62704", f.patients.patients[0].Address)
	// The provider is reused as well.
	assert.Len(t, f.providers.providers, 1)
	assert.Len(t, f.authorizations.authorizations, 2)
}

func TestSaveWithoutProviderIsPatientOnly(t *testing.T) {
	f := newResolverFixture()
	fields := map[string]*string{
		"patient_name": ptr("Jane Public"),
	}

	result := f.service.Save(context.Background(), fields, extraction.Generic, SourceAttachment{})

	require.Empty(t, result.Failure)
	assert.False(t, result.AuthorizationCreated)
	assert.Equal(t, "provider", result.MissingReason)
	assert.Empty(t, f.authorizations.authorizations)
	assert.Contains(t, result.Message(), "Successfully saved patient information")
	assert.Contains(t, result.Message(), "missing provider")
}

func TestSaveEmptyFieldsCreatesPlaceholderPatient(t *testing.T) {
	f := newResolverFixture()

	result := f.service.Save(context.Background(), map[string]*string{}, extraction.Generic, SourceAttachment{})

	require.Empty(t, result.Failure)
	require.Len(t, f.patients.patients, 1)
	assert.Equal(t, "Unknown", f.patients.patients[0].FirstName)
	assert.Equal(t, "Unknown", f.patients.patients[0].LastName)
	assert.False(t, result.AuthorizationCreated)
}

func TestSaveVisitCountDefaults(t *testing.T) {
	f := newResolverFixture()
	fields := map[string]*string{
		"patient_name":        ptr("Jane Public"),
		"provider_name":       ptr("Acme PT"),
		"authorized_sessions": ptr("twelve"),
	}

	result := f.service.Save(context.Background(), fields, extraction.Generic, SourceAttachment{})

	require.Empty(t, result.Failure)
	require.Len(t, f.authorizations.authorizations, 1)
	assert.Equal(t, 1, f.authorizations.authorizations[0].NumAuthorizedVisits)
	assert.True(t, result.UsedDefaultVisits)
}

func TestSaveVendorVisitFallbackChains(t *testing.T) {
	f := newResolverFixture()
	fields := map[string]*string{
		"patient_name":  ptr("Pat Lee"),
		"provider_name": ptr("Acme PT"),
		"total_visits":  ptr("6"),
	}

	result := f.service.Save(context.Background(), fields, extraction.HomeLink, SourceAttachment{})

	require.Empty(t, result.Failure)
	require.Len(t, f.authorizations.authorizations, 1)
	assert.Equal(t, 6, f.authorizations.authorizations[0].NumAuthorizedVisits)
	assert.False(t, result.UsedDefaultVisits)

	f = newResolverFixture()
	fields = map[string]*string{
		"patient_name":     ptr("Pat Lee"),
		"provider_name":    ptr("Acme PT"),
		"certified_visits": ptr("4"),
	}
	result = f.service.Save(context.Background(), fields, extraction.Corvel, SourceAttachment{})
	require.Empty(t, result.Failure)
	assert.Equal(t, 4, f.authorizations.authorizations[0].NumAuthorizedVisits)
	assert.False(t, result.UsedDefaultVisits)
}

func TestSaveEvaluationDateResolution(t *testing.T) {
	f := newResolverFixture()
	fields := map[string]*string{
		"patient_name":   ptr("Pat Lee"),
		"provider_name":  ptr("Acme PT"),
		"effective_date": ptr("03/15/2024"),
	}

	result := f.service.Save(context.Background(), fields, extraction.Corvel, SourceAttachment{})

	require.Empty(t, result.Failure)
	require.Len(t, f.authorizations.authorizations, 1)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), f.authorizations.authorizations[0].InitialEvaluationDate)
	assert.False(t, result.UsedDefaultEvalDate)
}

func TestSaveEvaluationDateDefaultsToNow(t *testing.T) {
	f := newResolverFixture()
	fields := map[string]*string{
		"patient_name":  ptr("Pat Lee"),
		"provider_name": ptr("Acme PT"),
	}

	before := time.Now().UTC()
	result := f.service.Save(context.Background(), fields, extraction.Generic, SourceAttachment{})

	require.Empty(t, result.Failure)
	assert.True(t, result.UsedDefaultEvalDate)
	evalDate := f.authorizations.authorizations[0].InitialEvaluationDate
	assert.False(t, evalDate.Before(before))
}

func TestSaveCaseIDFoldedIntoNotes(t *testing.T) {
	f := newResolverFixture()
	fields := map[string]*string{
		"patient_name":  ptr("Pat Lee"),
		"provider_name": ptr("Acme PT"),
		"case_id":       ptr("HL-4471"),
	}

	result := f.service.Save(context.Background(), fields, extraction.HomeLink, SourceAttachment{})

	require.Empty(t, result.Failure)
	assert.Equal(t, "Case ID: HL-4471", f.authorizations.authorizations[0].Notes)
}

func TestSaveStoresCaseIDAsClientNumber(t *testing.T) {
	f := newResolverFixture()
	fields := map[string]*string{
		"patient_name":  ptr("Jane Public"),
		"provider_name": ptr("Acme PT"),
		"case_id":       ptr("HL-4471"),
	}

	result := f.service.Save(context.Background(), fields, extraction.HomeLink, SourceAttachment{})

	require.Empty(t, result.Failure)
	require.Len(t, f.patients.patients, 1)
	assert.Equal(t, "HL-4471", f.patients.patients[0].ClientNumber)

	// A later document for the same patient refreshes the identifier.
	second := map[string]*string{
		"patient_name":  ptr("Jane Public"),
		"provider_name": ptr("Acme PT"),
		"case_id":       ptr("HL-9902"),
	}
	result = f.service.Save(context.Background(), second, extraction.HomeLink, SourceAttachment{})
	require.Empty(t, result.Failure)
	require.Len(t, f.patients.patients, 1)
	assert.Equal(t, "HL-9902", f.patients.patients[0].ClientNumber)
}

func TestSaveRawTextAttachmentRendered(t *testing.T) {
	f := newResolverFixture()
	fields := map[string]*string{
		"patient_name":  ptr("Pat Lee"),
		"provider_name": ptr("Acme PT"),
	}

	result := f.service.Save(context.Background(), fields, extraction.Generic, SourceAttachment{RawText: "Name: Pat Lee\nProvider: Acme PT"})

	require.Empty(t, result.Failure)
	assert.NotEmpty(t, f.authorizations.authorizations[0].SourceDocument)
}

func TestMapServiceType(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Physical Therapy evaluation", models.ServicePhysicalTherapy},
		{"PT", models.ServicePhysicalTherapy},
		{"Occupational Therapy", models.ServiceOccupationalTherapy},
		{"Speech Therapy", models.ServiceSpeechTherapy},
		{"acupuncture", models.ServiceOther},
		{"", models.ServiceOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MapServiceType(tc.text), "text %q", tc.text)
	}
}

func TestSplitPatientName(t *testing.T) {
	cases := []struct {
		name   string
		first  string
		middle string
		last   string
	}{
		{"Jane Q Public", "Jane", "Q", "Public"},
		{"Jane Public", "Jane", "", "Public"},
		{"Jane", "Jane", "", "Unknown"},
		{"", "Unknown", "", "Unknown"},
		{"Mary Anne van der Berg", "Mary", "Anne van der", "Berg"},
	}
	for _, tc := range cases {
		first, middle, last := SplitPatientName(tc.name)
		assert.Equal(t, tc.first, first, "name %q", tc.name)
		assert.Equal(t, tc.middle, middle, "name %q", tc.name)
		assert.Equal(t, tc.last, last, "name %q", tc.name)
	}
}
