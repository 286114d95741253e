package domain

import "time"

// Urgency levels, least to most urgent.
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// Urgencies lists the accepted urgency levels.
var Urgencies = []string{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical}

// Request lifecycle. Only open requests count as active.
const (
	StatusOpen      = "open"
	StatusFulfilled = "fulfilled"
	StatusCancelled = "cancelled"
)

// Unit bounds for a single request.
const (
	MinUnits = 1
	MaxUnits = 10
)

// Request is a submitted blood request.
type Request struct {
	ID             string    `json:"id"`
	PatientName    string    `json:"patient_name"`
	BloodGroup     string    `json:"blood_group"`
	Units          int       `json:"units"`
	Urgency        string    `json:"urgency"`
	HospitalName   string    `json:"hospital_name"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	ContactPerson  string    `json:"contact_person"`
	ContactPhone   string    `json:"contact_phone"`
	RequiredBy     time.Time `json:"required_by"`
	AdditionalInfo string    `json:"additional_info,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}
