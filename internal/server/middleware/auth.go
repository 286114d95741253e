package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/security"
	"nss-bloodbank/backend/internal/session"
)

const bearerPrefix = "bearer "

// Authenticate restores the cookie session for every request and stores both the session and
// the identity in the context. Requests without a session may authenticate with a Bearer access
// token instead; token identities are not written back to the cookie. tokens may be nil.
// Authenticate never rejects a request; route guards decide access.
func Authenticate(cookies *session.Cookies, tokens *security.TokenProvider, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			store := session.NewStore(cookies.For(w, r), logger)
			id, err := store.Restore(ctx)
			if err != nil {
				logger.Warn("session restore failed", zap.Error(err))
			}
			if id == nil && tokens != nil {
				if token := extractBearer(r); token != "" {
					if tid, err := tokens.Validate(token); err == nil {
						id = tid
					}
				}
			}
			ctx = WithSession(ctx, store)
			if id != nil {
				ctx = WithIdentity(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearer returns the Bearer token from the Authorization header, or "" if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) || !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
