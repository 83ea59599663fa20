package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor() *Extractor {
	return NewExtractor(NewPatternSet())
}

func TestExtractOneCallReferral(t *testing.T) {
	text := "Name: Jane Q Public\nDOB: 05/02/1990\nProvider: Acme PT\nTotal Auth: 8"

	fields := newTestExtractor().Extract(text, OneCall)

	require.NotNil(t, fields["patient_name"])
	assert.Equal(t, "Jane Q Public", *fields["patient_name"])
	require.NotNil(t, fields["patient_dob"])
	assert.Equal(t, "05/02/1990", *fields["patient_dob"])
	require.NotNil(t, fields["provider_name"])
	assert.Equal(t, "Acme PT", *fields["provider_name"])
	require.NotNil(t, fields["authorized_sessions"])
	assert.Equal(t, "8", *fields["authorized_sessions"])
	assert.Nil(t, fields["service_type"])
	assert.Nil(t, fields["claim_number"])
}

func TestExtractAllDeclaredKeysPresent(t *testing.T) {
	patterns := NewPatternSet()
	extractor := NewExtractor(patterns)

	for _, vendor := range []Vendor{Generic, OneCall, Corvel, HomeLink} {
		fields := extractor.Extract("no matching content here", vendor)
		assert.Len(t, fields, len(patterns.Fields(vendor)), "vendor %s", vendor)
		for _, field := range patterns.Fields(vendor) {
			value, ok := fields[field]
			assert.True(t, ok, "vendor %s missing key %s", vendor, field)
			assert.Nil(t, value, "vendor %s field %s should be nil", vendor, field)
		}
	}
}

func TestExtractFirstMatchWins(t *testing.T) {
	// Both alternatives for authorized_sessions match; the earlier one in
	// list order must determine the value.
	text := "Authorized Visits: 12\nTotal Auth: 8"
	fields := newTestExtractor().Extract(text, Generic)
	require.NotNil(t, fields["authorized_sessions"])
	assert.Equal(t, "12", *fields["authorized_sessions"])

	// With only the later alternative present, it is still consulted.
	fields = newTestExtractor().Extract("Total Auth: 8", Generic)
	require.NotNil(t, fields["authorized_sessions"])
	assert.Equal(t, "8", *fields["authorized_sessions"])
}

func TestExtractTwoGroupAddressJoin(t *testing.T) {
	text := "Address 1: 123 Main St\nCity/ST/Zip: Springfield, IL 62704"
	fields := newTestExtractor().Extract(text, OneCall)
	require.NotNil(t, fields["patient_address"])
	assert.Equal(t, "123 Main St, Springfield, IL 62704", *fields["patient_address"])
}

func TestExtractNameStopsAtSexMarker(t *testing.T) {
	fields := newTestExtractor().Extract("Name: John Doe Sex: M", OneCall)
	require.NotNil(t, fields["patient_name"])
	assert.Equal(t, "John Doe", *fields["patient_name"])
}

func TestExtractDocumentRecordsVendorTag(t *testing.T) {
	fields := newTestExtractor().ExtractDocument("Member: Pat Lee", HomeLink)
	require.NotNil(t, fields[FieldPDFType])
	assert.Equal(t, "HomeLink", *fields[FieldPDFType])
	require.NotNil(t, fields["patient_name"])
	assert.Equal(t, "Pat Lee", *fields["patient_name"])
}

func TestParseVendor(t *testing.T) {
	cases := []struct {
		tag    string
		vendor Vendor
	}{
		{"OneCall", OneCall},
		{"onecall", OneCall},
		{"Corvel", Corvel},
		{"HomeLink", HomeLink},
		{" homelink ", HomeLink},
		{"", Generic},
	}
	for _, tc := range cases {
		vendor, err := ParseVendor(tc.tag)
		require.NoError(t, err, "tag %q", tc.tag)
		assert.Equal(t, tc.vendor, vendor, "tag %q", tc.tag)
	}

	_, err := ParseVendor("unitedhealth")
	assert.Error(t, err)
}

func TestVendorScanned(t *testing.T) {
	assert.False(t, Generic.Scanned())
	assert.False(t, OneCall.Scanned())
	assert.True(t, Corvel.Scanned())
	assert.True(t, HomeLink.Scanned())
}
