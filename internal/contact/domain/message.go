package domain

import "time"

// Subjects offered by the contact form.
var Subjects = []string{
	"blood-donation",
	"blood-request",
	"event-info",
	"technical-support",
	"general",
	"feedback",
}

// Message is a submitted contact form.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
