// Package server wires handlers and middleware into the HTTP router and builds the gRPC health server.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	adminhandler "nss-bloodbank/backend/internal/admin/handler"
	"nss-bloodbank/backend/internal/audit"
	requesthandler "nss-bloodbank/backend/internal/bloodrequest/handler"
	contacthandler "nss-bloodbank/backend/internal/contact/handler"
	donationhandler "nss-bloodbank/backend/internal/donation/handler"
	donorhandler "nss-bloodbank/backend/internal/donor/handler"
	eventhandler "nss-bloodbank/backend/internal/event/handler"
	"nss-bloodbank/backend/internal/healthtips"
	identityhandler "nss-bloodbank/backend/internal/identity/handler"
	otphandler "nss-bloodbank/backend/internal/otp/handler"
	"nss-bloodbank/backend/internal/platform/guard"
	"nss-bloodbank/backend/internal/platform/httpjson"
	"nss-bloodbank/backend/internal/security"
	"nss-bloodbank/backend/internal/server/middleware"
	"nss-bloodbank/backend/internal/session"
	"nss-bloodbank/backend/internal/telemetry"
)

// Deps holds everything the router mounts. Handlers left nil are not routed.
type Deps struct {
	Logger      *zap.Logger
	Cookies     *session.Cookies
	Tokens      *security.TokenProvider
	TrustProxy  bool
	Emitter     telemetry.EventEmitter
	AuditLogger audit.AuditLogger
	// Guard decides admin access; nil uses guard.Default.
	Guard guard.Decider
	// DevOTP mounts GET /dev/otp. Set only outside production.
	DevOTP bool

	Auth      *identityhandler.AuthHandler
	OTP       *otphandler.Handler
	Donors    *donorhandler.Handler
	Requests  *requesthandler.Handler
	Events    *eventhandler.Handler
	Donations *donationhandler.Handler
	Contact   *contacthandler.Handler
	Admin     *adminhandler.Handler
	Health    http.Handler
}

// Routes whose handlers audit themselves, or that are too chatty to record.
var (
	auditSkip = map[string]bool{
		"/api/auth/login":           true,
		"/api/auth/logout":          true,
		"/api/auth/register":        true,
		"/api/auth/register/verify": true,
		"/api/auth/register/resend": true,
		"/api/otp/send":             true,
		"/api/otp/verify":           true,
		"/api/donors/steps":         true,
	}
	telemetrySkip = map[string]bool{
		"/healthz": true,
		"/dev/otp": true,
	}
)

// NewRouter builds the API router. Middleware runs after route matching so telemetry and audit
// see the path template.
func NewRouter(d Deps) *mux.Router {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := mux.NewRouter()
	jsonErrors(r)

	r.Use(middleware.ClientIP(d.TrustProxy))
	r.Use(middleware.RequestLog(logger))
	if d.Cookies != nil {
		r.Use(middleware.Authenticate(d.Cookies, d.Tokens, logger))
	}
	r.Use(middleware.Telemetry(d.Emitter, telemetrySkip))
	r.Use(middleware.Audit(d.AuditLogger, auditSkip))

	if d.Health != nil {
		r.Handle("/healthz", d.Health).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	jsonErrors(api)
	if h := d.Auth; h != nil {
		api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
		api.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)
		api.HandleFunc("/auth/session", h.Session).Methods(http.MethodGet)
		api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
		api.HandleFunc("/auth/register/verify", h.VerifyRegistration).Methods(http.MethodPost)
		api.HandleFunc("/auth/register/resend", h.ResendRegistrationCode).Methods(http.MethodPost)
		api.HandleFunc("/auth/google", h.GoogleStart).Methods(http.MethodGet)
		api.HandleFunc("/auth/google/callback", h.GoogleCallback).Methods(http.MethodGet)
	}
	if h := d.OTP; h != nil {
		api.HandleFunc("/otp/send", h.Send).Methods(http.MethodPost)
		api.HandleFunc("/otp/verify", h.Verify).Methods(http.MethodPost)
		if d.DevOTP {
			r.HandleFunc("/dev/otp", h.DevOTP).Methods(http.MethodGet)
		}
	}
	if h := d.Donors; h != nil {
		api.HandleFunc("/donors", h.List).Methods(http.MethodGet)
		api.HandleFunc("/donors", h.Register).Methods(http.MethodPost)
		api.HandleFunc("/donors/options", h.Options).Methods(http.MethodGet)
		api.HandleFunc("/donors/steps", h.CheckStep).Methods(http.MethodPost)
	}
	if h := d.Requests; h != nil {
		api.HandleFunc("/requests", h.Submit).Methods(http.MethodPost)
	}
	if h := d.Events; h != nil {
		api.HandleFunc("/events", h.List).Methods(http.MethodGet)
	}
	if h := d.Donations; h != nil {
		api.HandleFunc("/donations", h.List).Methods(http.MethodGet)
	}
	if h := d.Contact; h != nil {
		api.HandleFunc("/contact", h.Submit).Methods(http.MethodPost)
		api.HandleFunc("/contact/subjects", h.Subjects).Methods(http.MethodGet)
	}
	api.HandleFunc("/health-tips", healthtips.Handler).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	jsonErrors(admin)
	admin.Use(guard.RequireAdmin(d.Guard, d.AuditLogger))
	if h := d.Admin; h != nil {
		admin.HandleFunc("/dashboard", h.GetDashboard).Methods(http.MethodGet)
		admin.HandleFunc("/audit", h.ListAudit).Methods(http.MethodGet)
	}
	if h := d.Requests; h != nil {
		admin.HandleFunc("/requests", h.List).Methods(http.MethodGet)
	}
	if h := d.Contact; h != nil {
		admin.HandleFunc("/messages", h.List).Methods(http.MethodGet)
	}
	return r
}

// jsonErrors answers unmatched paths and methods with a JSON body. Subrouters need their own
// handlers: a method mismatch inside one is otherwise reported as 404.
func jsonErrors(r *mux.Router) {
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httpjson.Error(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httpjson.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}
