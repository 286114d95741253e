// Package validate holds the field checks shared by form-handling services.
package validate

import (
	"errors"
	"regexp"
	"strings"

	"nss-bloodbank/backend/internal/otp"
	otpdomain "nss-bloodbank/backend/internal/otp/domain"
)

// ErrInvalid is wrapped by every error returned from this package.
var ErrInvalid = errors.New("validation failed")

// Error names the offending field. Its message is safe to show to the client.
type Error struct {
	Field string
	Msg   string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return ErrInvalid }

// Fail returns an *Error for field.
func Fail(field, msg string) error {
	return &Error{Field: field, Msg: msg}
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Required fails when value is blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return Fail(field, field+" is required")
	}
	return nil
}

// Email checks the address shape.
func Email(field, value string) error {
	if err := Required(field, value); err != nil {
		return err
	}
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		return Fail(field, "invalid email format")
	}
	return nil
}

// Phone checks that value normalizes to an SMS target.
func Phone(field, value string) error {
	if err := Required(field, value); err != nil {
		return err
	}
	if _, ch, err := otp.NormalizeTarget(value); err != nil || ch != otpdomain.ChannelSMS {
		return Fail(field, "invalid phone number")
	}
	return nil
}

// OneOf fails when value is not in allowed. Comparison is case-insensitive.
func OneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(value), a) {
			return nil
		}
	}
	return Fail(field, field+" must be one of "+strings.Join(allowed, ", "))
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
