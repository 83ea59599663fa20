package extraction

import (
	"strings"
)

// FieldPDFType is the result key recording which vendor table produced a
// document-based extraction. The upsert stage uses it to pick the
// vendor-specific field aliases.
const FieldPDFType = "pdf_type"

// Extractor applies a PatternSet to acquired document text. Construct one
// at startup and share it; it holds no mutable state.
type Extractor struct {
	patterns *PatternSet
}

func NewExtractor(patterns *PatternSet) *Extractor {
	if patterns == nil {
		patterns = NewPatternSet()
	}
	return &Extractor{patterns: patterns}
}

// Extract runs every declared field for the vendor against the full text.
// For each field the ordered alternatives are tried and the first match
// wins; later alternatives are never consulted, even if the captured value
// looks malformed. Fields with no match are present in the result with a
// nil value — callers can rely on every declared key existing.
func (e *Extractor) Extract(fullText string, vendor Vendor) map[string]*string {
	table := e.patterns.Table(vendor)
	result := make(map[string]*string, len(table))
	for field, alternatives := range table {
		result[field] = nil
		for _, pattern := range alternatives {
			match := pattern.FindStringSubmatch(fullText)
			if match == nil {
				continue
			}
			value := selectValue(field, match)
			result[field] = &value
			break
		}
	}
	return result
}

// ExtractDocument tags the result with the vendor so the save stage can
// resolve vendor-specific aliases later.
func (e *Extractor) ExtractDocument(fullText string, vendor Vendor) map[string]*string {
	result := e.Extract(fullText, vendor)
	tag := vendor.String()
	result[FieldPDFType] = &tag
	return result
}

// selectValue picks the captured value from a match: the first capturing
// group when the pattern defines one, the whole match otherwise. Address
// fields captured as two groups (street / city-state-zip) are rejoined
// with a comma.
func selectValue(field string, match []string) string {
	if (field == "patient_address" || field == "provider_address") && len(match) > 2 {
		return strings.TrimSpace(match[1] + ", " + match[2])
	}
	if len(match) > 1 {
		return strings.TrimSpace(match[1])
	}
	return strings.TrimSpace(match[0])
}
