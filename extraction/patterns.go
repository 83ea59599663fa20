package extraction

import "regexp"

// PatternSet holds the per-vendor extraction tables: for every semantic
// field, an ordered list of regex alternatives. The first alternative that
// matches wins, so list order is significant. Tables are compiled once at
// construction and injected into the Extractor; nothing here is mutated
// after NewPatternSet returns.
type PatternSet struct {
	tables map[Vendor]map[string][]*regexp.Regexp
}

// Table returns the compiled field table for the given vendor.
func (p *PatternSet) Table(v Vendor) map[string][]*regexp.Regexp {
	return p.tables[v]
}

// Fields returns the declared field names for the given vendor.
func (p *PatternSet) Fields(v Vendor) []string {
	table := p.tables[v]
	fields := make([]string, 0, len(table))
	for field := range table {
		fields = append(fields, field)
	}
	return fields
}

// NewPatternSet compiles the default vendor tables. All patterns run
// case-insensitive, multiline, with dot matching newline.
func NewPatternSet() *PatternSet {
	return &PatternSet{tables: map[Vendor]map[string][]*regexp.Regexp{
		OneCall:  compileTable(oneCallPatterns),
		Corvel:   compileTable(corvelPatterns),
		HomeLink: compileTable(homeLinkPatterns),
		Generic:  compileTable(textPatterns),
	}}
}

func compileTable(src map[string][]string) map[string][]*regexp.Regexp {
	table := make(map[string][]*regexp.Regexp, len(src))
	for field, alternatives := range src {
		compiled := make([]*regexp.Regexp, 0, len(alternatives))
		for _, pattern := range alternatives {
			compiled = append(compiled, regexp.MustCompile(`(?ims)`+pattern))
		}
		table[field] = compiled
	}
	return table
}

// OneCall referral documents carry a native text layer.
var oneCallPatterns = map[string][]string{
	"patient_name": {
		`Name:\s*([^\n]+?)(?:\s*Sex:|$)`,
		`Name\s*([^\n]+?)(?:\s*Sex:|$)`,
	},
	"patient_dob": {
		`DOB:\s*(\d{1,2}/\d{1,2}/\d{4})`,
		`Date\s*of\s*Birth\s*[:]*\s*(\d{1,2}/\d{1,2}/\d{4})`,
	},
	"patient_ssn": {
		`SSN:\s*(\d{3}-\d{2}-\d{4})`,
	},
	"patient_phone": {
		`Phone:\s*H:\s*(\(\d{3}\)\s*\d{3}-\d{4})`,
	},
	"patient_address": {
		`Address 1:\s*([^\n]+?)(?:\s*SSN:|$)\nCity/ST/Zip:\s*([^\n]+)`,
		`Address:\s*([^\n]+?)(?:\s*SSN:|$)\nCity/ST/Zip:\s*([^\n]+)`,
	},
	"employer": {
		`Employer:\s*([^\n]+)`,
	},
	"injury_date": {
		`Injury Date:\s*(\d{1,2}/\d{1,2}/\d{4})`,
	},
	"injury_details": {
		`Details:\s*([^\n]+)`,
	},
	"physician_name": {
		`Physician:\s*([^\n]+)`,
	},
	"physician_npi": {
		`NPI Number:\s*(\d+)`,
	},
	"provider_name": {
		`Provider:\s*([^\n]+)`,
	},
	"authorized_sessions": {
		`Total Auth:\s*(\d+)`,
		`Frequency=\d+\s*Duration=\d+\s*Total Auth:\s*(\d+)`,
	},
	"authorization_date": {
		`Auth Effective Date:\s*(\d{1,2}/\d{1,2}/\d{4})`,
	},
	"rx_expiration_date": {
		`RX Expiration Date:\s*(\d{1,2}/\d{1,2}/\d{4})`,
	},
	"procedure": {
		`Procedure:\s*([^\n]+)`,
	},
	"service_type": {
		`Service\s*Type:\s*([^\n]+)`,
	},
	"claim_number": {
		`Claim\s*(?:Number|#)\s*[:]*\s*(\S+)`,
	},
	"case_id": {
		`Case\s*(?:ID|Number)\s*[:]*\s*(\S+)`,
	},
}

// Corvel certifications arrive as scanned images; these patterns run
// against OCR output, so they are tolerant of spacing drift.
var corvelPatterns = map[string][]string{
	"patient_name": {
		`Injured\s*Worker\s*[:]*\s*([^\n]+)`,
		`Patient\s*(?:Name)?\s*[:]*\s*([^\n]+)`,
	},
	"patient_dob": {
		`DOB\s*[:]*\s*(\d{1,2}/\d{1,2}/\d{4})`,
		`Date\s*of\s*Birth\s*[:]*\s*(\d{1,2}/\d{1,2}/\d{4})`,
	},
	"patient_phone": {
		`Phone\s*[:]*\s*(\(\d{3}\)\s*\d{3}-\d{4})`,
	},
	"patient_address": {
		`Address\s*[:]*\s*([^\n]+)\n\s*([^\n]+,\s*[A-Z]{2}\s*\d{5})`,
	},
	"employer": {
		`Employer\s*[:]*\s*([^\n]+)`,
	},
	"claim_number": {
		`Claim\s*(?:Number|#)\s*[:]*\s*(\S+)`,
	},
	"effective_date": {
		`Effective\s*Date\s*[:]*\s*(\d{1,2}/\d{1,2}/\d{4})`,
		`Certification\s*Period\s*[:]*\s*(\d{1,2}/\d{1,2}/\d{4})`,
	},
	"certified_visits": {
		`Certified\s*Visits\s*[:]*\s*(\d+)`,
		`Visits\s*Certified\s*[:]*\s*(\d+)`,
	},
	"authorized_visits": {
		`Authorized\s*Visits\s*[:]*\s*(\d+)`,
		`Number\s*of\s*Visits\s*[:]*\s*(\d+)`,
	},
	"service_type": {
		`Type\s*of\s*Service\s*[:]*\s*([^\n]+)`,
		`Service\s*[:]*\s*([^\n]+)`,
	},
	"provider_name": {
		`Rendering\s*Provider\s*[:]*\s*([^\n]+)`,
		`Provider\s*[:]*\s*([^\n]+)`,
	},
	"provider_address": {
		`Provider\s*Address\s*[:]*\s*([^\n]+)\n\s*([^\n]+,\s*[A-Z]{2}\s*\d{5})`,
	},
	"provider_phone": {
		`Provider\s*Phone\s*[:]*\s*(\(?\d{3}\)?[\s.-]*\d{3}[\s.-]*\d{4})`,
	},
	"physician_name": {
		`(?:Referring\s*)?Physician\s*[:]*\s*([^\n]+)`,
	},
	"procedure": {
		`Procedure\s*[:]*\s*([^\n]+)`,
	},
}

// HomeLink orders are scanned as well.
var homeLinkPatterns = map[string][]string{
	"patient_name": {
		`Member\s*(?:Name)?\s*[:]*\s*([^\n]+)`,
		`Patient\s*(?:Name)?\s*[:]*\s*([^\n]+)`,
	},
	"patient_dob": {
		`DOB\s*[:]*\s*(\d{1,2}/\d{1,2}/\d{4})`,
		`Date\s*of\s*Birth\s*[:]*\s*(\d{1,2}/\d{1,2}/\d{4})`,
	},
	"patient_phone": {
		`(?:Member\s*)?Phone\s*[:]*\s*(\(?\d{3}\)?[\s.-]*\d{3}[\s.-]*\d{4})`,
	},
	"patient_address": {
		`Address\s*[:]*\s*([^\n]+)\n\s*([^\n]+,\s*[A-Z]{2}\s*\d{5})`,
	},
	"case_id": {
		`Order\s*(?:Number|#)\s*[:]*\s*(\S+)`,
		`Case\s*(?:ID|Number)\s*[:]*\s*(\S+)`,
	},
	"claim_number": {
		`Claim\s*(?:Number|#)\s*[:]*\s*(\S+)`,
	},
	"service_type": {
		`Service\s*Requested\s*[:]*\s*([^\n]+)`,
		`Type\s*of\s*Service\s*[:]*\s*([^\n]+)`,
	},
	"authorized_sessions": {
		`Authorized\s*Sessions\s*[:]*\s*(\d+)`,
		`Sessions\s*Authorized\s*[:]*\s*(\d+)`,
	},
	"total_visits": {
		`Total\s*Visits\s*[:]*\s*(\d+)`,
		`(\d+)\s*visits?\s*total`,
	},
	"start_date": {
		`Start\s*Date\s*[:]*\s*(\d{1,2}/\d{1,2}/\d{4})`,
		`Begin\s*Date\s*[:]*\s*(\d{1,2}/\d{1,2}/\d{4})`,
	},
	"authorization_date": {
		`Authorization\s*Date\s*[:]*\s*(\d{1,2}/\d{1,2}/\d{4})`,
		`Auth\s*Date\s*[:]*\s*(\d{1,2}/\d{1,2}/\d{4})`,
	},
	"provider_name": {
		`Servicing\s*Provider\s*[:]*\s*([^\n]+)`,
		`Provider\s*[:]*\s*([^\n]+)`,
	},
	"provider_address": {
		`Provider\s*Address\s*[:]*\s*([^\n]+)\n\s*([^\n]+,\s*[A-Z]{2}\s*\d{5})`,
	},
	"provider_phone": {
		`Provider\s*Phone\s*[:]*\s*(\(?\d{3}\)?[\s.-]*\d{3}[\s.-]*\d{4})`,
	},
	"physician_name": {
		`(?:Ordering\s*)?Physician\s*[:]*\s*([^\n]+)`,
	},
}

// Patterns for pasted text with no vendor tag.
var textPatterns = map[string][]string{
	"patient_name": {
		`Name:\s*([^\n]+)`,
		`Name\s*:\s*([^\n]+)`,
	},
	"patient_dob": {
		`Date\s*of\s*Birth:\s*(\d{1,2}/\d{1,2}/\d{4})`,
		`DOB:\s*(\d{1,2}/\d{1,2}/\d{4})`,
	},
	"patient_phone": {
		`Phone\s*\(Primary\):\s*(\(\d{3}\)\s*\d{3}-\d{4})`,
		`Phone\s*\(Mobile\):\s*(\(\d{3}\)\s*\d{3}-\d{4})`,
		`Phone\s*\(Alternate\):\s*(\(\d{3}\)\s*\d{3}-\d{4})`,
		`Phone\s*\(Primary\):\s*(\d{3}-\d{3}-\d{4})`,
		`Phone\s*\(Mobile\):\s*(\d{3}-\d{3}-\d{4})`,
		`Phone\s*\(Alternate\):\s*(\d{3}-\d{3}-\d{4})`,
	},
	"patient_address": {
		`Address:\s*([^\n]+),\s*([^\n]+)`,
		`Address\s*:\s*([^\n]+),\s*([^\n]+)`,
	},
	"injury_date": {
		`Date\s*of\s*Injury:\s*(\d{1,2}/\d{1,2}/\d{4})`,
		`DOI:\s*(\d{1,2}/\d{1,2}/\d{4})`,
	},
	"body_part": {
		`Body\s*Part:\s*([^\n]+)`,
		`Body\s*Part\s*:\s*([^\n]+)`,
	},
	"case_id": {
		`Case\s*ID:\s*([^\n]+)`,
		`Case\s*ID\s*:\s*([^\n]+)`,
	},
	"authorized_sessions": {
		`Authorized\s*Visits:\s*(\d+)`,
		`Authorized\s*Visits\s*:\s*(\d+)`,
		`Auth\s*Visits:\s*(\d+)`,
		`Total Auth:\s*(\d+)`,
	},
	"provider_name": {
		`FACILITY:\s*Name:\s*([^\n]+)`,
		`FACILITY\s*:\s*Name:\s*([^\n]+)`,
		`Provider:\s*([^\n]+)`,
	},
	"provider_address": {
		`FACILITY:\s*Name:\s*[^\n]+\s*Address:\s*([^\n]+)`,
		`FACILITY\s*:\s*Name:\s*[^\n]+\s*Address:\s*([^\n]+)`,
	},
	"provider_phone": {
		`FACILITY:\s*Name:\s*[^\n]+\s*Address:\s*[^\n]+\s*Phone:\s*(\d+)`,
		`FACILITY\s*:\s*Name:\s*[^\n]+\s*Address:\s*[^\n]+\s*Phone:\s*(\d+)`,
	},
	"provider_fax": {
		`FACILITY:\s*Name:\s*[^\n]+\s*Address:\s*[^\n]+\s*Phone:\s*\d+\s*Fax:\s*(\d+)`,
		`FACILITY\s*:\s*Name:\s*[^\n]+\s*Address:\s*[^\n]+\s*Phone:\s*\d+\s*Fax:\s*(\d+)`,
	},
	"physician_name": {
		`PHYSICIAN:\s*Name:\s*([^\n]+)`,
		`PHYSICIAN\s*:\s*Name:\s*([^\n]+)`,
	},
	"physician_phone": {
		`PHYSICIAN:\s*Name:\s*[^\n]+\s*Phone:\s*(\(\d{3}\)\s*\d{3}-\d{4})`,
		`PHYSICIAN\s*:\s*Name:\s*[^\n]+\s*Phone:\s*(\(\d{3}\)\s*\d{3}-\d{4})`,
	},
	"service_type": {
		`Type\s*of\s*Service:\s*([^\n]+)`,
		`Type\s*of\s*Service\s*:\s*([^\n]+)`,
		`Service\s*Type:\s*([^\n]+)`,
	},
	"jurisdiction_state": {
		`Jurisdiction\s*State:\s*([^\n]+)`,
		`Jurisdiction\s*State\s*:\s*([^\n]+)`,
	},
	"claim_number": {
		`Claim\s*Number:\s*([^\n]+)`,
		`Claim\s*Number\s*:\s*([^\n]+)`,
	},
	"surgery_date": {
		`Date\s*of\s*Surgery:\s*(\d{1,2}/\d{1,2}/\d{4})`,
		`Date\s*of\s*Surgery\s*:\s*(\d{1,2}/\d{1,2}/\d{4})`,
	},
	"initial_evaluation_date": {
		`Initial\s*Evaluation\s*Date:\s*(\d{1,2}/\d{1,2}/\d{4})`,
		`Initial\s*Evaluation\s*Date\s*:\s*(\d{1,2}/\d{1,2}/\d{4})`,
	},
	"initial_evaluation_time": {
		`Initial\s*Evaluation\s*Time:\s*([^\n]+)`,
		`Initial\s*Evaluation\s*Time\s*:\s*([^\n]+)`,
	},
}
