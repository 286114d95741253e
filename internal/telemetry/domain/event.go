package domain

import (
	"encoding/json"
	"time"
)

// Event types emitted by the server.
const (
	EventHTTPRequest           = "http_request"
	EventDonorRegistered       = "donor.registered"
	EventBloodRequestSubmitted = "blood_request.submitted"
	EventContactSubmitted      = "contact.submitted"
	EventLogin                 = "auth.login"
)

// Event is a single telemetry record. It is the JSON value written to Kafka.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"event_type"`
	Source    string          `json:"source"`
	UserID    string          `json:"user_id,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
