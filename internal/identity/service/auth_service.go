package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/audit"
	auditdomain "nss-bloodbank/backend/internal/audit/domain"
	"nss-bloodbank/backend/internal/identity/domain"
	"nss-bloodbank/backend/internal/otp"
	"nss-bloodbank/backend/internal/security"
	"nss-bloodbank/backend/internal/session"
)

// ErrNoPendingRegistration is returned by VerifyRegistration when no sign-up is waiting on the email.
var ErrNoPendingRegistration = errors.New("no pending registration")

// DefaultPendingTTL bounds how long an unverified sign-up may be completed or have its code resent.
const DefaultPendingTTL = 24 * time.Hour

// LoginResult is returned on successful login. AccessToken is empty when no token provider is configured.
type LoginResult struct {
	Identity    *domain.Identity `json:"user"`
	AccessToken string           `json:"access_token,omitempty"`
	ExpiresAt   time.Time        `json:"expires_at,omitempty"`
}

// OTPGate is the part of the OTP gate used by sign-up.
type OTPGate interface {
	SendCode(ctx context.Context, rawTarget string) (*otp.Receipt, error)
	VerifyCode(ctx context.Context, rawTarget, candidate string) error
}

// AuthService implements login, logout, sign-up and redirect sign-in on top of one Backend.
type AuthService struct {
	backend Backend
	gate    OTPGate
	tokens  *security.TokenProvider
	audit   audit.AuditLogger
	logger  *zap.Logger
	now     func() time.Time

	mu sync.Mutex
	// pending holds identities whose sign-up awaits the emailed code.
	pending    map[string]pendingRegistration
	pendingTTL time.Duration
}

type pendingRegistration struct {
	identity  *domain.Identity
	expiresAt time.Time
}

// NewAuthService returns an AuthService. gate may be nil, in which case Register completes
// without a verification step. tokens may be nil; then no access tokens are issued.
func NewAuthService(backend Backend, gate OTPGate, tokens *security.TokenProvider, auditLogger audit.AuditLogger, logger *zap.Logger) *AuthService {
	if auditLogger == nil {
		auditLogger = audit.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		backend:    backend,
		gate:       gate,
		tokens:     tokens,
		audit:      auditLogger,
		logger:     logger,
		now:        time.Now,
		pending:    make(map[string]pendingRegistration),
		pendingTTL: DefaultPendingTTL,
	}
}

// Login verifies the credentials and, on success, stores the identity in sess.
// Every failure surfaces as ErrInvalidCredentials and leaves sess untouched.
func (s *AuthService) Login(ctx context.Context, sess *session.Store, email, password string) (*LoginResult, error) {
	id, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.audit.LogEvent(ctx, "", auditdomain.ActionLoginFailure, "auth", "")
		if !errors.Is(err, ErrInvalidCredentials) {
			s.logger.Warn("login backend error", zap.Error(err))
		}
		return nil, ErrInvalidCredentials
	}
	res, err := s.establish(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	s.audit.LogEvent(ctx, id.ID, auditdomain.ActionLoginSuccess, "auth", string(id.Provider))
	return res, nil
}

// Logout clears sess. Logging out without a session is a no-op that still succeeds.
func (s *AuthService) Logout(ctx context.Context, sess *session.Store) error {
	if sess == nil {
		return nil
	}
	id, ok := sess.Current()
	if ok {
		if err := s.backend.Logout(ctx, id); err != nil {
			s.logger.Warn("backend logout failed", zap.String("user_id", id.ID), zap.Error(err))
		}
	}
	if err := sess.Clear(ctx); err != nil {
		return err
	}
	if ok {
		s.audit.LogEvent(ctx, id.ID, auditdomain.ActionLogout, "auth", "")
	}
	return nil
}

// Register creates the account and emails a verification code. The caller completes sign-up
// with VerifyRegistration. The returned receipt is nil when no gate is configured and the
// identity was signed in immediately.
func (s *AuthService) Register(ctx context.Context, sess *session.Store, in RegisterInput) (*otp.Receipt, *LoginResult, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}
	id, err := s.backend.Register(ctx, in)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return nil, nil, err
		}
		if !errors.Is(err, ErrRegistrationFailed) {
			s.logger.Warn("register backend error", zap.Error(err))
		}
		return nil, nil, ErrRegistrationFailed
	}
	s.audit.LogEvent(ctx, id.ID, auditdomain.ActionRegister, "auth", string(id.Provider))

	if s.gate == nil {
		res, err := s.establish(ctx, sess, id)
		return nil, res, err
	}
	receipt, err := s.gate.SendCode(ctx, in.Email)
	if err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	s.sweepLocked()
	s.pending[in.Email] = pendingRegistration{identity: id.Clone(), expiresAt: s.now().Add(s.pendingTTL)}
	s.mu.Unlock()
	return receipt, nil, nil
}

// ResendRegistrationCode issues a fresh code for a pending sign-up.
func (s *AuthService) ResendRegistrationCode(ctx context.Context, email string) (*otp.Receipt, error) {
	email = normalizeEmail(email)
	if s.gate == nil || !s.hasPending(email) {
		return nil, ErrNoPendingRegistration
	}
	receipt, err := s.gate.SendCode(ctx, email)
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// VerifyRegistration checks the emailed code and signs the new identity in.
func (s *AuthService) VerifyRegistration(ctx context.Context, sess *session.Store, email, code string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if s.gate == nil || !s.hasPending(email) {
		return nil, ErrNoPendingRegistration
	}
	if err := s.gate.VerifyCode(ctx, email, code); err != nil {
		return nil, err
	}
	s.mu.Lock()
	p, ok := s.pending[email]
	delete(s.pending, email)
	s.mu.Unlock()
	if !ok {
		return nil, ErrNoPendingRegistration
	}
	res, err := s.establish(ctx, sess, p.identity)
	if err != nil {
		return nil, err
	}
	s.audit.LogEvent(ctx, p.identity.ID, auditdomain.ActionRegisterVerified, "auth", "")
	return res, nil
}

// ProviderRedirectURL returns the consent URL for redirect-based sign-in.
func (s *AuthService) ProviderRedirectURL(state string) (string, error) {
	return s.backend.ProviderRedirectURL(state)
}

// CompleteProviderSignIn finishes redirect-based sign-in and stores the identity in sess.
func (s *AuthService) CompleteProviderSignIn(ctx context.Context, sess *session.Store, code string) (*LoginResult, error) {
	id, err := s.backend.CompleteProviderSignIn(ctx, code)
	if err != nil {
		s.audit.LogEvent(ctx, "", auditdomain.ActionLoginFailure, "auth", "provider")
		if errors.Is(err, ErrProviderUnavailable) {
			return nil, err
		}
		s.logger.Warn("provider sign-in failed", zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	res, err := s.establish(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	s.audit.LogEvent(ctx, id.ID, auditdomain.ActionProviderSignIn, "auth", string(id.Provider))
	return res, nil
}

// Session returns the identity held by sess, restoring it from storage when needed.
func (s *AuthService) Session(ctx context.Context, sess *session.Store) (*domain.Identity, bool) {
	if sess == nil {
		return nil, false
	}
	if id, ok := sess.Current(); ok {
		return id, true
	}
	id, err := sess.Restore(ctx)
	if err != nil || id == nil {
		return nil, false
	}
	return id, true
}

func (s *AuthService) establish(ctx context.Context, sess *session.Store, id *domain.Identity) (*LoginResult, error) {
	res := &LoginResult{Identity: id.Clone()}
	if s.tokens != nil {
		token, exp, err := s.tokens.Issue(id)
		if err != nil {
			return nil, fmt.Errorf("issue access token: %w", err)
		}
		res.AccessToken = token
		res.ExpiresAt = exp
	}
	if sess != nil {
		if err := sess.Set(ctx, id); err != nil {
			return nil, fmt.Errorf("store session: %w", err)
		}
	}
	return res, nil
}

func (s *AuthService) hasPending(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	_, ok := s.pending[email]
	return ok
}

func (s *AuthService) sweepLocked() {
	now := s.now()
	for k, p := range s.pending {
		if now.After(p.expiresAt) {
			delete(s.pending, k)
		}
	}
}
