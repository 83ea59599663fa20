package models

import (
	"time"
)

// Service types an authorization can cover.
const (
	ServicePhysicalTherapy     = "physical_therapy"
	ServiceOccupationalTherapy = "occupational_therapy"
	ServiceSpeechTherapy       = "speech_therapy"
	ServiceOther               = "other"
)

// Authorization lifecycle states. New authorizations always start pending.
const (
	AuthStatusPending  = "pending"
	AuthStatusApproved = "approved"
	AuthStatusDenied   = "denied"
	AuthStatusExpired  = "expired"
)

// Patient model
type Patient struct {
	ID             int64      `gorm:"primaryKey;autoIncrement;column:patient_id" json:"patient_id"`
	FirstName      string     `gorm:"column:first_name;not null;index:idx_patient_name" json:"first_name"`
	MiddleName     string     `gorm:"column:middle_name" json:"middle_name"`
	LastName       string     `gorm:"column:last_name;not null;index:idx_patient_name" json:"last_name"`
	DateOfBirth    *time.Time `gorm:"column:date_of_birth;type:date" json:"date_of_birth"`
	Sex            string     `gorm:"column:sex" json:"sex"`
	GenderIdentity string     `gorm:"column:gender_identity" json:"gender_identity"`
	Address        string     `gorm:"column:address" json:"address"`
	Postcode       string     `gorm:"column:postcode" json:"postcode"`
	State          string     `gorm:"column:state" json:"state"`
	Phone          string     `gorm:"column:phone" json:"phone"`
	Email          string     `gorm:"column:email" json:"email"`
	ClientNumber   string     `gorm:"column:client_number;index" json:"client_number"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Authorizations []Authorization `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Appointments   []Appointment   `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Patient) TableName() string {
	return "patients"
}

// Provider model. Name is the de-facto identity key for document
// extraction; Code is the practitioner code used by the CSV importer.
type Provider struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:provider_id" json:"provider_id"`
	Name      string    `gorm:"column:name;not null;index" json:"name"`
	Code      string    `gorm:"column:code;index" json:"code"`
	Address   string    `gorm:"column:address" json:"address"`
	Phone     string    `gorm:"column:phone" json:"phone"`
	Fax       string    `gorm:"column:fax" json:"fax"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Authorizations []Authorization `gorm:"foreignKey:ProviderID;references:ID" json:"-"`
	Appointments   []Appointment   `gorm:"foreignKey:ProviderID;references:ID" json:"-"`
}

func (Provider) TableName() string {
	return "providers"
}

// Location model
type Location struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:location_id" json:"location_id"`
	Name      string    `gorm:"column:name;unique;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Appointments []Appointment `gorm:"foreignKey:LocationID;references:ID" json:"-"`
}

func (Location) TableName() string {
	return "locations"
}

// Authorization links a patient and a provider to a bounded number of
// therapy visits extracted from an insurance-authorization document.
type Authorization struct {
	ID                    int64     `gorm:"primaryKey;autoIncrement;column:authorization_id" json:"authorization_id"`
	PatientID             int64     `gorm:"column:patient_id;not null;index" json:"patient_id"`
	ProviderID            int64     `gorm:"column:provider_id;not null;index" json:"provider_id"`
	ClaimNumber           string    `gorm:"column:claim_number" json:"claim_number"`
	NumAuthorizedVisits   int       `gorm:"column:num_authorized_visits;not null" json:"num_authorized_visits"`
	ServiceType           string    `gorm:"column:service_type;check:service_type IN ('physical_therapy', 'occupational_therapy', 'speech_therapy', 'other');not null" json:"service_type"`
	InitialEvaluationDate time.Time `gorm:"column:initial_evaluation_date;type:date;not null" json:"initial_evaluation_date"`
	Status                string    `gorm:"column:status;check:status IN ('pending', 'approved', 'denied', 'expired');not null" json:"status"`
	Notes                 string    `gorm:"column:notes" json:"notes"`
	SourceDocument        []byte    `gorm:"column:source_document;type:bytea" json:"-"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Patient  Patient  `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Provider Provider `gorm:"foreignKey:ProviderID;references:ID" json:"-"`
}

func (Authorization) TableName() string {
	return "authorizations"
}

// Appointment model, populated by CRUD calls and the CSV importer.
type Appointment struct {
	ID                  int64      `gorm:"primaryKey;autoIncrement;column:appointment_id" json:"appointment_id"`
	PatientID           int64      `gorm:"column:patient_id;not null;index" json:"patient_id"`
	ProviderID          int64      `gorm:"column:provider_id;not null;index" json:"provider_id"`
	LocationID          *int64     `gorm:"column:location_id;index" json:"location_id"`
	AppointmentDateTime *time.Time `gorm:"column:appointment_datetime;index" json:"appointment_datetime"`
	EndTime             string     `gorm:"column:end_time" json:"end_time"`
	AppointmentType     string     `gorm:"column:appointment_type" json:"appointment_type"`
	InvoiceNumber       string     `gorm:"column:invoice_number" json:"invoice_number"`
	Notes               string     `gorm:"column:notes" json:"notes"`
	Flag                string     `gorm:"column:flag" json:"flag"`
	Status              string     `gorm:"column:status;not null" json:"status"`
	ClientType          string     `gorm:"column:client_type" json:"client_type"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Patient  Patient  `gorm:"foreignKey:PatientID;references:ID" json:"patient"`
	Provider Provider `gorm:"foreignKey:ProviderID;references:ID" json:"provider"`
	Location Location `gorm:"foreignKey:LocationID;references:ID" json:"location"`
}

func (Appointment) TableName() string {
	return "appointments"
}
