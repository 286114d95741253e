package domain

import (
	"errors"
	"strings"
	"time"
)

// Donation statuses.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

// Donation is one recorded donation.
type Donation struct {
	ID           string    `json:"id"`
	DonorName    string    `json:"donor_name"`
	BloodGroup   string    `json:"blood_group"`
	DonationDate time.Time `json:"donation_date"`
	Location     string    `json:"location"`
	Units        int       `json:"units"`
	Status       string    `json:"status"`
}

// Period is a look-back window ending now.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// ErrUnknownPeriod is returned by ParsePeriod.
var ErrUnknownPeriod = errors.New("period must be one of week, month, year, all")

// ParsePeriod maps s to a Period. Empty means PeriodAll.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodAll, nil
	case PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return p, nil
	}
	return "", ErrUnknownPeriod
}

// Since returns the start of the window ending at now. ok is false for PeriodAll.
func (p Period) Since(now time.Time) (start time.Time, ok bool) {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, -1, 0), true
	case PeriodYear:
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

// Contains reports whether t falls in the window ending at now. Future dates are excluded.
func (p Period) Contains(t, now time.Time) bool {
	start, ok := p.Since(now)
	if !ok {
		return true
	}
	return !t.Before(start) && !t.After(now)
}

// Stats summarizes completed donations.
type Stats struct {
	TotalDonations int `json:"total_donations"`
	TotalUnits     int `json:"total_units"`
}

// Summarize counts completed donations and sums their units.
func Summarize(ds []*Donation) Stats {
	var s Stats
	for _, d := range ds {
		if d.Status == StatusCompleted {
			s.TotalDonations++
			s.TotalUnits += d.Units
		}
	}
	return s
}
