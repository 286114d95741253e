// Package middleware holds the HTTP middleware chain: client IP, session/bearer authentication,
// request logging, telemetry and audit.
package middleware

import (
	"context"

	"nss-bloodbank/backend/internal/identity/domain"
	"nss-bloodbank/backend/internal/session"
)

type contextKey struct{ name string }

var (
	identityKey = contextKey{"identity"}
	sessionKey  = contextKey{"session"}
	clientIPKey = contextKey{"client_ip"}
)

// WithIdentity returns a context carrying the signed-in identity.
func WithIdentity(ctx context.Context, id *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity set by Authenticate, or nil, false.
func IdentityFrom(ctx context.Context) (*domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*domain.Identity)
	return id, ok && id != nil
}

// UserID returns the signed-in user's ID, or "".
func UserID(ctx context.Context) string {
	if id, ok := IdentityFrom(ctx); ok {
		return id.ID
	}
	return ""
}

// WithSession returns a context carrying the request's session store.
func WithSession(ctx context.Context, s *session.Store) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFrom returns the session store for the request, or nil.
func SessionFrom(ctx context.Context) *session.Store {
	s, _ := ctx.Value(sessionKey).(*session.Store)
	return s
}

// WithClientIP returns a context carrying the client IP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIPFrom returns the client IP recorded by ClientIP, or "unknown".
// It matches audit.IPExtractor.
func ClientIPFrom(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey).(string); ok && ip != "" {
		return ip
	}
	return "unknown"
}
