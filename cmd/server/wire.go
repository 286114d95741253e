package main

import (
	"context"
	"crypto"
	"crypto/rand"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	auditrepo "nss-bloodbank/backend/internal/audit/repository"
	requestrepo "nss-bloodbank/backend/internal/bloodrequest/repository"
	"nss-bloodbank/backend/internal/config"
	contactrepo "nss-bloodbank/backend/internal/contact/repository"
	"nss-bloodbank/backend/internal/db"
	"nss-bloodbank/backend/internal/devotp"
	donationrepo "nss-bloodbank/backend/internal/donation/repository"
	donorrepo "nss-bloodbank/backend/internal/donor/repository"
	eventrepo "nss-bloodbank/backend/internal/event/repository"
	"nss-bloodbank/backend/internal/identity/firebase"
	identityservice "nss-bloodbank/backend/internal/identity/service"
	"nss-bloodbank/backend/internal/otp"
	"nss-bloodbank/backend/internal/otp/sms"
	"nss-bloodbank/backend/internal/platform/guard"
	"nss-bloodbank/backend/internal/security"
	userrepo "nss-bloodbank/backend/internal/user/repository"
)

// auditCapacity bounds the in-memory audit trail when no database is configured.
const auditCapacity = 10000

type repositories struct {
	db        *sql.DB
	users     userrepo.Repository
	donors    donorrepo.Repository
	requests  requestrepo.Repository
	events    eventrepo.Repository
	donations donationrepo.Repository
	contact   contactrepo.Repository
	audit     auditrepo.Repository
}

func (r *repositories) Close() {
	if r.db != nil {
		_ = r.db.Close()
	}
}

// openRepositories uses Postgres when DATABASE_URL is set and fixture-seeded memory stores otherwise.
func openRepositories(cfg *config.Config, logger *zap.Logger) (*repositories, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("db: DATABASE_URL not set, using in-memory repositories")
		return &repositories{
			users:     userrepo.NewMemoryRepository(),
			donors:    donorrepo.NewMemoryRepository(donorrepo.Fixtures()...),
			requests:  requestrepo.NewMemoryRepository(),
			events:    eventrepo.NewMemoryRepository(eventrepo.Fixtures()...),
			donations: donationrepo.NewMemoryRepository(donationrepo.Fixtures()...),
			contact:   contactrepo.NewMemoryRepository(),
			audit:     auditrepo.NewMemoryRepository(auditCapacity),
		}, nil
	}
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	return &repositories{
		db:        conn,
		users:     userrepo.NewPostgresRepository(conn),
		donors:    donorrepo.NewPostgresRepository(conn),
		requests:  requestrepo.NewPostgresRepository(conn),
		events:    eventrepo.NewPostgresRepository(conn),
		donations: donationrepo.NewPostgresRepository(conn),
		contact:   contactrepo.NewPostgresRepository(conn),
		audit:     auditrepo.NewPostgresRepository(conn),
	}, nil
}

func newTokenProvider(cfg *config.Config, logger *zap.Logger) (*security.TokenProvider, error) {
	var (
		signer crypto.Signer
		pub    crypto.PublicKey
		err    error
	)
	if cfg.JWTPrivateKey == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("jwt: JWT_PRIVATE_KEY must be set in production")
		}
		key, err := security.GenerateSigningKey()
		if err != nil {
			return nil, fmt.Errorf("jwt: generate key: %w", err)
		}
		logger.Warn("jwt: using an ephemeral signing key, bearer tokens will not survive a restart")
		signer, pub = key, key.Public()
	} else {
		signer, err = security.ParsePrivateKey(cfg.JWTPrivateKey)
		if err != nil {
			return nil, fmt.Errorf("jwt: private key: %w", err)
		}
		pub = signer.Public()
		if cfg.JWTPublicKey != "" {
			if pub, err = security.ParsePublicKey(cfg.JWTPublicKey); err != nil {
				return nil, fmt.Errorf("jwt: public key: %w", err)
			}
		}
	}
	return security.NewTokenProvider(signer, pub, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL()), nil
}

// sessionSecret returns SESSION_SECRET, or a random one outside production.
func sessionSecret(cfg *config.Config, logger *zap.Logger) ([]byte, error) {
	if cfg.SessionSecret != "" {
		return []byte(cfg.SessionSecret), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("session: generate secret: %w", err)
	}
	logger.Warn("session: SESSION_SECRET not set, sessions will not survive a restart")
	return secret, nil
}

// newOTPSender routes phone codes to SMS Local or Twilio when configured. Email codes and
// unconfigured SMS are only logged. Dev mode additionally keeps every code for /dev/otp.
func newOTPSender(cfg *config.Config, dev *devotp.MemoryStore, logger *zap.Logger) otp.Sender {
	logSender := otp.LogSender{Logger: logger}
	var smsSender otp.Sender = logSender
	switch {
	case cfg.SMSLocalAPIKey != "":
		smsSender = otp.SMSSender{Client: sms.NewSMSLocalClient(cfg.SMSLocalAPIKey, cfg.SMSLocalBaseURL, cfg.SMSLocalSender)}
		logger.Info("otp: sms via SMS Local")
	case cfg.TwilioAccountSID != "":
		smsSender = otp.SMSSender{Client: sms.NewTwilioClient(sms.TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			From:       cfg.TwilioFrom,
		})}
		logger.Info("otp: sms via Twilio")
	}
	var sender otp.Sender = otp.Router{SMS: smsSender, Email: logSender, Fallback: logSender}
	if dev != nil {
		sender = otp.Multi{sender, otp.DevSender{Store: dev}}
	}
	return sender
}

func newBackend(cfg *config.Config, users userrepo.Repository) (identityservice.Backend, error) {
	admins := identityservice.NewAdminList(append(cfg.AdminEmailList(), cfg.AdminEmail))
	switch cfg.AuthBackend {
	case config.AuthBackendLocal:
		return identityservice.NewLocalBackend(users, security.NewHasher(cfg.BcryptCost), admins), nil
	case config.AuthBackendFirebase:
		b, err := firebase.New(firebase.Config{
			APIKey:             cfg.FirebaseAPIKey,
			BaseURL:            cfg.FirebaseBaseURL,
			GoogleClientID:     cfg.GoogleClientID,
			GoogleClientSecret: cfg.GoogleClientSecret,
			GoogleRedirectURL:  cfg.GoogleRedirectURL,
			Admins:             admins,
		})
		if err != nil {
			return nil, fmt.Errorf("firebase: %w", err)
		}
		return b, nil
	default:
		return identityservice.NewMockBackend(cfg.AdminEmail, cfg.AdminPassword), nil
	}
}

func newGuard(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*guard.PolicyGuard, error) {
	if cfg.GuardPolicyFile != "" {
		g, err := guard.LoadPolicyGuard(ctx, cfg.GuardPolicyFile, logger)
		if err != nil {
			return nil, fmt.Errorf("guard: %w", err)
		}
		return g, nil
	}
	g, err := guard.NewPolicyGuard(ctx, guard.DefaultPolicy, logger)
	if err != nil {
		return nil, fmt.Errorf("guard: %w", err)
	}
	return g, nil
}
