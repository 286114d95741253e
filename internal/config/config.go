// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Auth backends selectable with AUTH_BACKEND.
const (
	AuthBackendMock     = "mock"
	AuthBackendLocal    = "local"
	AuthBackendFirebase = "firebase"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP API listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// GRPCHealthAddr is the address of the gRPC health endpoint; empty disables it.
	GRPCHealthAddr string `mapstructure:"GRPC_HEALTH_ADDR"`
	// DatabaseURL is the Postgres DSN; empty means in-memory fixture repositories.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// LogLevel is the zap level (debug, info, warn, error).
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP.
	TrustProxy bool `mapstructure:"TRUST_PROXY"`
	// GuardPolicyFile is an optional Rego file replacing the built-in admin route policy.
	GuardPolicyFile string `mapstructure:"GUARD_POLICY_FILE"`

	// AuthBackend selects the credential verifier: mock, local, or firebase.
	AuthBackend string `mapstructure:"AUTH_BACKEND"`
	// AdminEmail and AdminPassword are the single credential accepted by the mock backend.
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	// AdminEmails is a comma-separated allow-list granting the admin flag to remote identities.
	AdminEmails string `mapstructure:"ADMIN_EMAILS"`

	// SessionSecret signs the session cookie. Required in production.
	SessionSecret string `mapstructure:"SESSION_SECRET"`
	// SessionCookieName is the fixed key the serialized identity is stored under.
	SessionCookieName string `mapstructure:"SESSION_COOKIE_NAME"`
	// SessionMaxAge is the cookie lifetime (e.g. "168h").
	SessionMaxAge string `mapstructure:"SESSION_MAX_AGE"`

	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file; empty generates an ephemeral key.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded public key or path to file; used with JWT_PRIVATE_KEY.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	JWTIssuer    string `mapstructure:"JWT_ISSUER"`
	JWTAudience  string `mapstructure:"JWT_AUDIENCE"`
	// JWTAccessTTL is the bearer token lifetime (e.g. "12h").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12. Used by the local backend.
	BcryptCost int `mapstructure:"BCRYPT_COST"`

	// OTPTTL is how long an issued code stays valid (e.g. "10m").
	OTPTTL string `mapstructure:"OTP_TTL"`
	// OTPMaxAttempts is the number of wrong guesses after which a challenge is discarded.
	OTPMaxAttempts int `mapstructure:"OTP_MAX_ATTEMPTS"`
	// OTPResendInterval is the minimum time between two codes for the same target (e.g. "30s").
	OTPResendInterval string `mapstructure:"OTP_RESEND_INTERVAL"`
	// OTPReturnToClient enables dev OTP mode: codes are kept for GET /dev/otp. Must not be true in production.
	OTPReturnToClient bool `mapstructure:"OTP_RETURN_TO_CLIENT"`

	// SMSLocalAPIKey is the API key for SMS Local. When set, phone codes are sent through SMS Local.
	SMSLocalAPIKey  string `mapstructure:"SMS_LOCAL_API_KEY"`
	SMSLocalSender  string `mapstructure:"SMS_LOCAL_SENDER"`
	SMSLocalBaseURL string `mapstructure:"SMS_LOCAL_BASE_URL"`
	// TwilioAccountSID, TwilioAuthToken and TwilioFrom configure Twilio as the SMS sender (used when SMS Local is not set).
	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string `mapstructure:"TWILIO_FROM"`

	// FirebaseAPIKey is the Web API key for the Identity Toolkit REST API (AUTH_BACKEND=firebase).
	FirebaseAPIKey  string `mapstructure:"FIREBASE_API_KEY"`
	FirebaseBaseURL string `mapstructure:"FIREBASE_BASE_URL"`
	// Google OAuth client used for the redirect sign-in flow.
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`

	// SubmissionDelay simulates processing time for form submissions (e.g. "2s"); default 0.
	SubmissionDelay string `mapstructure:"SUBMISSION_DELAY"`

	// KafkaBrokers is a comma-separated list of Kafka broker addresses; empty disables event publishing.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// EventsKafkaTopic is the topic domain events are written to.
	EventsKafkaTopic string `mapstructure:"EVENTS_KAFKA_TOPIC"`
	// KafkaGroupID is the consumer group ID for the events worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
	// LokiURL is the Loki base URL the worker pushes events to.
	LokiURL string `mapstructure:"LOKI_URL"`
	// OTLPEndpoint is the OTLP gRPC collector endpoint; empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext to the collector even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	// AutomaticEnv only resolves keys viper already knows, so every key below needs a default.
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GRPC_HEALTH_ADDR", ":8081")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("GUARD_POLICY_FILE", "")
	v.SetDefault("AUTH_BACKEND", AuthBackendMock)
	v.SetDefault("ADMIN_EMAIL", "admin@nss.mmmut.ac.in")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
	v.SetDefault("ADMIN_EMAILS", "")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_COOKIE_NAME", "bloodbank_session")
	v.SetDefault("SESSION_MAX_AGE", "168h")
	v.SetDefault("JWT_ISSUER", "bloodbank-auth")
	v.SetDefault("JWT_AUDIENCE", "bloodbank-api")
	v.SetDefault("JWT_PRIVATE_KEY", "")
	v.SetDefault("JWT_PUBLIC_KEY", "")
	v.SetDefault("JWT_ACCESS_TTL", "12h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("OTP_TTL", "10m")
	v.SetDefault("OTP_MAX_ATTEMPTS", 5)
	v.SetDefault("OTP_RESEND_INTERVAL", "30s")
	v.SetDefault("OTP_RETURN_TO_CLIENT", false)
	v.SetDefault("SMS_LOCAL_API_KEY", "")
	v.SetDefault("SMS_LOCAL_SENDER", "")
	v.SetDefault("SMS_LOCAL_BASE_URL", "https://www.smslocal.com/dev/bulkV2")
	v.SetDefault("TWILIO_ACCOUNT_SID", "")
	v.SetDefault("TWILIO_AUTH_TOKEN", "")
	v.SetDefault("TWILIO_FROM", "")
	v.SetDefault("FIREBASE_API_KEY", "")
	v.SetDefault("FIREBASE_BASE_URL", "https://identitytoolkit.googleapis.com/v1")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "")
	v.SetDefault("SUBMISSION_DELAY", "0s")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("EVENTS_KAFKA_TOPIC", "bloodbank-events")
	v.SetDefault("KAFKA_GROUP_ID", "bloodbank-events-worker")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	cfg.AuthBackend = strings.ToLower(strings.TrimSpace(cfg.AuthBackend))
	switch cfg.AuthBackend {
	case AuthBackendMock, AuthBackendLocal:
	case AuthBackendFirebase:
		if cfg.FirebaseAPIKey == "" {
			return nil, errors.New("config: FIREBASE_API_KEY must be set when AUTH_BACKEND=firebase")
		}
	default:
		return nil, errors.New("config: AUTH_BACKEND must be one of mock, local, firebase")
	}

	if cfg.AuthBackend == AuthBackendLocal && cfg.DatabaseURL == "" && cfg.IsProduction() {
		return nil, errors.New("config: AUTH_BACKEND=local requires DATABASE_URL in production")
	}

	if cfg.OTPReturnToClient && cfg.IsProduction() {
		return nil, errors.New("config: OTP_RETURN_TO_CLIENT must not be true when APP_ENV=production")
	}

	if cfg.IsProduction() && len(cfg.SessionSecret) < 32 {
		return nil, errors.New("config: SESSION_SECRET must be at least 32 bytes when APP_ENV=production")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	if cfg.OTPMaxAttempts <= 0 {
		return nil, errors.New("config: OTP_MAX_ATTEMPTS must be positive")
	}

	return &cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 12h if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	return parseDuration(c.JWTAccessTTL, 12*time.Hour)
}

// SessionTTL parses SessionMaxAge. Returns 168h if unset or invalid.
func (c *Config) SessionTTL() time.Duration {
	return parseDuration(c.SessionMaxAge, 168*time.Hour)
}

// OTPChallengeTTL parses OTPTTL. Returns 10m if unset or invalid.
func (c *Config) OTPChallengeTTL() time.Duration {
	return parseDuration(c.OTPTTL, 10*time.Minute)
}

// OTPResendWait parses OTPResendInterval. Returns 30s if unset or invalid; zero is allowed.
func (c *Config) OTPResendWait() time.Duration {
	d, err := time.ParseDuration(c.OTPResendInterval)
	if err != nil || d < 0 {
		return 30 * time.Second
	}
	return d
}

// SubmissionDelayDuration parses SubmissionDelay. Returns 0 if unset or invalid.
func (c *Config) SubmissionDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.SubmissionDelay)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if event publishing is enabled (non-empty list) and to create the producer.
func (c *Config) KafkaBrokersList() []string {
	if c == nil {
		return nil
	}
	return splitList(c.KafkaBrokers)
}

// AdminEmailList returns the lower-cased admin allow-list.
func (c *Config) AdminEmailList() []string {
	if c == nil {
		return nil
	}
	list := splitList(c.AdminEmails)
	for i := range list {
		list[i] = strings.ToLower(list[i])
	}
	return list
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
