package domain

import (
	"errors"
	"strings"
)

// Identity is the authenticated principal held by a session.
type Identity struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	IsAdmin  bool             `json:"is_admin"`
	Provider IdentityProvider `json:"provider,omitempty"`
}

type IdentityProvider string

const (
	IdentityProviderMock     IdentityProvider = "mock"
	IdentityProviderLocal    IdentityProvider = "local"
	IdentityProviderFirebase IdentityProvider = "firebase"
	IdentityProviderGoogle   IdentityProvider = "google"
)

// Validate reports whether the identity can be stored in a session.
func (i *Identity) Validate() error {
	if i == nil {
		return errors.New("identity is nil")
	}
	if strings.TrimSpace(i.ID) == "" {
		return errors.New("identity id is required")
	}
	if strings.TrimSpace(i.Email) == "" {
		return errors.New("identity email is required")
	}
	return nil
}

// Clone returns a copy so callers cannot mutate a stored identity.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
