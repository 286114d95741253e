package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"nss-bloodbank/backend/internal/identity/domain"
	"nss-bloodbank/backend/internal/platform/validate"
)

// Sentinel errors shared by every backend. Handlers show a flat message for each.
var (
	// ErrInvalidCredentials covers unknown accounts, wrong passwords and disabled users alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRegistrationFailed is returned when a backend refuses to create an account.
	ErrRegistrationFailed = errors.New("registration failed")
	// ErrProviderUnavailable is returned when redirect sign-in is not configured or the provider is unreachable.
	ErrProviderUnavailable = errors.New("sign-in provider unavailable")
	// ErrValidation wraps input validation failures.
	ErrValidation = validate.ErrInvalid
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims fields and lower-cases the email.
func (in RegisterInput) Normalize() RegisterInput {
	return RegisterInput{
		Name:     strings.TrimSpace(in.Name),
		Email:    normalizeEmail(in.Email),
		Password: in.Password,
	}
}

// Validate checks the normalized input. Errors wrap ErrValidation.
func (in RegisterInput) Validate() error {
	if in.Name == "" {
		return validationError("name is required")
	}
	if err := ValidateEmail(in.Email); err != nil {
		return err
	}
	return ValidatePassword(in.Password)
}

// ValidateEmail checks the address shape.
func ValidateEmail(email string) error {
	return validate.Email("email", email)
}

// ValidatePassword requires at least 8 characters with a letter and a digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return validationError("password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return validationError("password must contain a letter and a number")
	}
	return nil
}

func validationError(msg string) error { return validate.Fail("", msg) }

// Backend verifies credentials against one identity source.
type Backend interface {
	// Login returns the identity for a matching email/password pair, or ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*domain.Identity, error)
	// Register creates an account, or returns ErrRegistrationFailed.
	Register(ctx context.Context, in RegisterInput) (*domain.Identity, error)
	// Logout signs the identity out of the backend. Backends without remote state return nil.
	Logout(ctx context.Context, id *domain.Identity) error
	// ProviderRedirectURL returns the third-party consent URL carrying state, or ErrProviderUnavailable.
	ProviderRedirectURL(state string) (string, error)
	// CompleteProviderSignIn exchanges the authorization code returned to the callback for an identity.
	CompleteProviderSignIn(ctx context.Context, code string) (*domain.Identity, error)
}

// AdminList grants the admin flag to a fixed set of lower-cased emails.
type AdminList map[string]struct{}

// NewAdminList builds an AdminList from emails.
func NewAdminList(emails []string) AdminList {
	l := make(AdminList, len(emails))
	for _, e := range emails {
		l[normalizeEmail(e)] = struct{}{}
	}
	return l
}

// Contains reports whether email is on the list.
func (l AdminList) Contains(email string) bool {
	_, ok := l[normalizeEmail(email)]
	return ok
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
