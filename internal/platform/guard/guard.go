// Package guard decides whether a request may reach an admin-only route.
package guard

import (
	"context"

	"nss-bloodbank/backend/internal/identity/domain"
)

// LoginPath is where denied visitors are sent.
const LoginPath = "/login"

// Decision is the outcome of a guard check. RedirectTo is set only when Allowed is false.
type Decision struct {
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// Decide admits an identity that exists and carries the admin flag. It is a pure function of id.
func Decide(id *domain.Identity) Decision {
	if id != nil && id.IsAdmin {
		return Decision{Allowed: true}
	}
	return Decision{RedirectTo: LoginPath}
}

// Decider evaluates access for an identity.
type Decider interface {
	Decide(ctx context.Context, id *domain.Identity) Decision
}

// DeciderFunc adapts Decide-shaped functions to Decider.
type DeciderFunc func(id *domain.Identity) Decision

func (f DeciderFunc) Decide(_ context.Context, id *domain.Identity) Decision { return f(id) }

// Default is the built-in admin rule as a Decider.
var Default Decider = DeciderFunc(Decide)
