package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"nss-bloodbank/backend/internal/identity/domain"
	"nss-bloodbank/backend/internal/security"
)

// MockAdminID and MockAdminName describe the single identity the mock backend signs in.
const (
	MockAdminID   = "admin"
	MockAdminName = "NSS Admin"
)

// MockBackend accepts exactly one administrator credential. It stands in for a real identity
// source during development and demos.
type MockBackend struct {
	email    string
	password string
}

// NewMockBackend returns a backend accepting only email/password, byte for byte.
func NewMockBackend(email, password string) *MockBackend {
	return &MockBackend{email: email, password: password}
}

// Login compares both fields exactly, in constant time, and never reveals which one was wrong.
// Case and surrounding spaces are significant.
func (b *MockBackend) Login(_ context.Context, email, password string) (*domain.Identity, error) {
	emailOK := security.SecretEqual(email, b.email)
	passwordOK := security.SecretEqual(password, b.password)
	if !emailOK || !passwordOK || b.email == "" || b.password == "" {
		return nil, ErrInvalidCredentials
	}
	return &domain.Identity{
		ID:       MockAdminID,
		Name:     MockAdminName,
		Email:    b.email,
		IsAdmin:  true,
		Provider: domain.IdentityProviderMock,
	}, nil
}

// Register validates the form and acknowledges it with a non-admin identity. Nothing is stored,
// so the account cannot log in afterwards.
func (b *MockBackend) Register(_ context.Context, in RegisterInput) (*domain.Identity, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if strings.EqualFold(in.Email, strings.TrimSpace(b.email)) {
		return nil, ErrRegistrationFailed
	}
	return &domain.Identity{
		ID:       uuid.New().String(),
		Name:     in.Name,
		Email:    in.Email,
		Provider: domain.IdentityProviderMock,
	}, nil
}

func (b *MockBackend) Logout(context.Context, *domain.Identity) error { return nil }

func (b *MockBackend) ProviderRedirectURL(string) (string, error) {
	return "", ErrProviderUnavailable
}

func (b *MockBackend) CompleteProviderSignIn(context.Context, string) (*domain.Identity, error) {
	return nil, ErrProviderUnavailable
}
