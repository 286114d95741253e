package guard

import (
	"net/http"

	"nss-bloodbank/backend/internal/audit"
	auditdomain "nss-bloodbank/backend/internal/audit/domain"
	"nss-bloodbank/backend/internal/platform/httpjson"
	"nss-bloodbank/backend/internal/server/middleware"
)

// RequireAdmin admits requests whose identity passes d. Denied JSON clients get 401 without an
// identity and 403 with a non-admin one, both carrying the login redirect; browsers get a 303 to
// the login page. auditLogger may be nil.
func RequireAdmin(d Decider, auditLogger audit.AuditLogger) func(http.Handler) http.Handler {
	if d == nil {
		d = Default
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, signedIn := middleware.IdentityFrom(r.Context())
			decision := d.Decide(r.Context(), id)
			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}
			if signedIn && auditLogger != nil {
				auditLogger.LogEvent(r.Context(), id.ID, auditdomain.ActionAccessDenied, r.URL.Path, "")
			}
			redirect := decision.RedirectTo
			if redirect == "" {
				redirect = LoginPath
			}
			if !httpjson.WantsJSON(r) {
				http.Redirect(w, r, redirect, http.StatusSeeOther)
				return
			}
			status, msg := http.StatusUnauthorized, "authentication required"
			if signedIn {
				status, msg = http.StatusForbidden, "admin access required"
			}
			httpjson.Write(w, status, httpjson.ErrorBody{Error: msg, Redirect: redirect})
		})
	}
}
