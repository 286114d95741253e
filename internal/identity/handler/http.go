// Package handler exposes AuthService over HTTP.
package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/identity/domain"
	"nss-bloodbank/backend/internal/identity/service"
	"nss-bloodbank/backend/internal/otp"
	otphandler "nss-bloodbank/backend/internal/otp/handler"
	"nss-bloodbank/backend/internal/platform/httpjson"
	"nss-bloodbank/backend/internal/server/middleware"
)

const (
	stateCookie = "bloodbank_oauth_state"
	stateMaxAge = 5 * time.Minute
)

// AuthHandler serves /api/auth/*.
type AuthHandler struct {
	auth         *service.AuthService
	logger       *zap.Logger
	secureCookie bool
}

// NewAuthHandler returns an AuthHandler. secureCookie marks the OAuth state cookie Secure.
func NewAuthHandler(auth *service.AuthService, secureCookie bool, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: auth, logger: logger, secureCookie: secureCookie}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRegistrationRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type resendRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *domain.Identity `json:"user,omitempty"`
}

type registerResponse struct {
	Pending bool   `json:"pending"`
	Target  string `json:"target"`
	// ExpiresAt is when the emailed code stops working.
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.auth.Login(r.Context(), middleware.SessionFrom(r.Context()), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, res)
}

// Logout handles POST /api/auth/logout. It succeeds without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), middleware.SessionFrom(r.Context())); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/auth/session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		id, ok = h.auth.Session(r.Context(), middleware.SessionFrom(r.Context()))
	}
	httpjson.Write(w, http.StatusOK, sessionResponse{Authenticated: ok, User: id})
}

// Register handles POST /api/auth/register. With an OTP gate the response is 202 and the client
// continues with /api/auth/register/verify; without one the new identity is signed in at once.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	receipt, res, err := h.auth.Register(r.Context(), middleware.SessionFrom(r.Context()), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if receipt == nil {
		httpjson.Write(w, http.StatusCreated, res)
		return
	}
	httpjson.Write(w, http.StatusAccepted, registerResponse{Pending: true, Target: receipt.Target, ExpiresAt: receipt.ExpiresAt})
}

// VerifyRegistration handles POST /api/auth/register/verify.
func (h *AuthHandler) VerifyRegistration(w http.ResponseWriter, r *http.Request) {
	var req verifyRegistrationRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.auth.VerifyRegistration(r.Context(), middleware.SessionFrom(r.Context()), req.Email, req.Code)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, res)
}

// ResendRegistrationCode handles POST /api/auth/register/resend.
func (h *AuthHandler) ResendRegistrationCode(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	receipt, err := h.auth.ResendRegistrationCode(r.Context(), req.Email)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusAccepted, registerResponse{Pending: true, Target: receipt.Target, ExpiresAt: receipt.ExpiresAt})
}

// GoogleStart handles GET /api/auth/google: it sets a state cookie and redirects to the
// provider's consent page.
func (h *AuthHandler) GoogleStart(w http.ResponseWriter, r *http.Request) {
	state, err := newState()
	if err != nil {
		h.writeError(w, err)
		return
	}
	target, err := h.auth.ProviderRedirectURL(state)
	if err != nil {
		h.writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		MaxAge:   int(stateMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, target, http.StatusFound)
}

// GoogleCallback handles GET /api/auth/google/callback. Browsers land on "/" (or "/admin" for
// administrators) on success and on the login page otherwise.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(stateCookie)
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/api/auth/google", MaxAge: -1})
	q := r.URL.Query()
	if err != nil || c.Value == "" || q.Get("state") != c.Value {
		h.failCallback(w, r, http.StatusBadRequest, "invalid state")
		return
	}
	if q.Get("error") != "" || q.Get("code") == "" {
		h.failCallback(w, r, http.StatusUnauthorized, "sign-in cancelled")
		return
	}
	res, err := h.auth.CompleteProviderSignIn(r.Context(), middleware.SessionFrom(r.Context()), q.Get("code"))
	if err != nil {
		h.logger.Info("provider sign-in rejected", zap.Error(err))
		h.failCallback(w, r, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
		return
	}
	if httpjson.WantsJSON(r) {
		httpjson.Write(w, http.StatusOK, res)
		return
	}
	dest := "/"
	if res.Identity.IsAdmin {
		dest = "/admin"
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *AuthHandler) failCallback(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if httpjson.WantsJSON(r) {
		httpjson.Write(w, status, httpjson.ErrorBody{Error: msg, Redirect: "/login"})
		return
	}
	http.Redirect(w, r, "/login?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (h *AuthHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpjson.Error(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrValidation):
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRegistrationFailed):
		httpjson.Error(w, http.StatusConflict, service.ErrRegistrationFailed.Error())
	case errors.Is(err, service.ErrProviderUnavailable):
		httpjson.Error(w, http.StatusNotImplemented, service.ErrProviderUnavailable.Error())
	case errors.Is(err, service.ErrNoPendingRegistration):
		httpjson.Error(w, http.StatusNotFound, service.ErrNoPendingRegistration.Error())
	default:
		if otp.IsGateError(err) {
			otphandler.WriteError(w, err)
			return
		}
		h.logger.Error("auth handler error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func newState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
