package domain

import (
	"errors"
	"strings"
	"time"
)

// User is an account known to the local auth backend.
type User struct {
	ID            string
	Email         string
	Name          string
	Phone         string // optional; immutable after PhoneVerified
	PhoneVerified bool
	PasswordHash  string
	IsAdmin       bool
	Status        UserStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("email is malformed")
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}

// Active reports whether the user may sign in.
func (u *User) Active() bool {
	return u.Status == "" || u.Status == UserStatusActive
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
