package domain

import (
	"strings"
	"time"
)

// Event statuses.
const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
)

// Event categories.
const (
	CategoryCamp      = "camp"
	CategoryAwareness = "awareness"
	CategoryEmergency = "emergency"
)

// AllCategories disables the category filter.
const AllCategories = "all"

// Event is a donation camp, drive or workshop.
type Event struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Date             time.Time `json:"date"`
	Time             string    `json:"time"`
	Location         string    `json:"location"`
	Organizer        string    `json:"organizer"`
	ExpectedDonors   int       `json:"expected_donors"`
	RegisteredDonors int       `json:"registered_donors"`
	Status           string    `json:"status"`
	Category         string    `json:"category"`
}

// Progress is the registration percentage, clamped to [0, 100]. It is 0 when no donors are expected.
func (e *Event) Progress() float64 {
	if e.ExpectedDonors <= 0 || e.RegisteredDonors <= 0 {
		return 0
	}
	return min(float64(e.RegisteredDonors)/float64(e.ExpectedDonors)*100, 100)
}

// InCategory reports whether e belongs to category. Empty or AllCategories matches every event.
func (e *Event) InCategory(category string) bool {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, AllCategories) {
		return true
	}
	return strings.EqualFold(e.Category, category)
}
