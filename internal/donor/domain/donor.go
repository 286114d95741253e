package domain

import (
	"strings"
	"time"
)

// Donor is a registered blood donor.
type Donor struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	BloodGroup       string     `json:"blood_group"`
	Age              int        `json:"age"`
	Address          string     `json:"address,omitempty"`
	City             string     `json:"city"`
	State            string     `json:"state"`
	Country          string     `json:"country"`
	EmergencyContact string     `json:"emergency_contact,omitempty"`
	EmergencyPhone   string     `json:"emergency_phone,omitempty"`
	MedicalHistory   string     `json:"medical_history,omitempty"`
	LastDonation     *time.Time `json:"last_donation,omitempty"`
	TotalDonations   int        `json:"total_donations"`
	CreatedAt        time.Time  `json:"created_at"`
}

// DefaultCountry is assumed when a registration leaves the country blank.
const DefaultCountry = "India"

// Donor age bounds, inclusive.
const (
	MinAge = 18
	MaxAge = 65
)

// BloodGroups lists every accepted ABO/Rh group.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// ValidBloodGroup reports whether g is one of BloodGroups. Matching is case-insensitive.
func ValidBloodGroup(g string) bool {
	g = strings.ToUpper(strings.TrimSpace(g))
	for _, b := range BloodGroups {
		if b == g {
			return true
		}
	}
	return false
}

// All disables a Filter predicate. An empty value does the same.
const All = "all"

// Filter narrows a donor list. Every set field must match.
type Filter struct {
	Search     string `json:"search,omitempty"`
	BloodGroup string `json:"blood_group,omitempty"`
	State      string `json:"state,omitempty"`
	City       string `json:"city,omitempty"`
}

// Matches reports whether d satisfies every active predicate of f.
// Search is a case-insensitive substring of name or email, or a plain substring of phone.
func (f Filter) Matches(d *Donor) bool {
	if q := strings.TrimSpace(f.Search); q != "" {
		lq := strings.ToLower(q)
		if !strings.Contains(strings.ToLower(d.Name), lq) &&
			!strings.Contains(strings.ToLower(d.Email), lq) &&
			!strings.Contains(d.Phone, q) {
			return false
		}
	}
	if active(f.BloodGroup) && !strings.EqualFold(d.BloodGroup, strings.TrimSpace(f.BloodGroup)) {
		return false
	}
	if active(f.State) && !strings.EqualFold(d.State, strings.TrimSpace(f.State)) {
		return false
	}
	if active(f.City) && !strings.EqualFold(d.City, strings.TrimSpace(f.City)) {
		return false
	}
	return true
}

func active(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, All)
}
