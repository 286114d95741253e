package middleware

import (
	"net/http"
	"strconv"

	"nss-bloodbank/backend/internal/audit"
)

// Audit records an audit entry after each state-changing request made by a signed-in identity.
// Reads are not audited. Routes in skip (mux path templates) are left to their handlers, which
// audit with richer actions. Best-effort: see audit.AuditLogger.
func Audit(logger audit.AuditLogger, skip map[string]bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)
			if logger == nil || r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				return
			}
			route := routeTemplate(r)
			if skip[route] {
				return
			}
			userID := UserID(r.Context())
			if userID == "" {
				return
			}
			ar := audit.ParseRoute(r.Method, route)
			logger.LogEvent(r.Context(), userID, ar.Action, ar.Resource, "status="+strconv.Itoa(rec.status))
		})
	}
}
