package domain

import "time"

// AuditLog represents an audit event.
type AuditLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	IP        string    `json:"ip"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Actions recorded by the auth flow.
const (
	ActionLoginSuccess     = "login_success"
	ActionLoginFailure     = "login_failure"
	ActionLogout           = "logout"
	ActionRegister         = "register"
	ActionRegisterVerified = "register_verified"
	ActionProviderSignIn   = "provider_sign_in"
	ActionAccessDenied     = "access_denied"
)
