package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.AuthBackend != AuthBackendMock {
		t.Errorf("AuthBackend = %q, want %q", cfg.AuthBackend, AuthBackendMock)
	}
	if cfg.AdminEmail != "admin@nss.mmmut.ac.in" {
		t.Errorf("AdminEmail = %q, want default", cfg.AdminEmail)
	}
	if cfg.SessionCookieName != "bloodbank_session" {
		t.Errorf("SessionCookieName = %q, want %q", cfg.SessionCookieName, "bloodbank_session")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.OTPMaxAttempts != 5 {
		t.Errorf("OTPMaxAttempts = %d, want 5", cfg.OTPMaxAttempts)
	}
	if cfg.OTPReturnToClient {
		t.Error("OTPReturnToClient should default to false")
	}
	if cfg.EventsKafkaTopic != "bloodbank-events" {
		t.Errorf("EventsKafkaTopic = %q, want default", cfg.EventsKafkaTopic)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("JWT_ISSUER", "custom-issuer")
	os.Setenv("BCRYPT_COST", "10")
	os.Setenv("AUTH_BACKEND", "LOCAL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.JWTIssuer != "custom-issuer" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "custom-issuer")
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
	if cfg.AuthBackend != AuthBackendLocal {
		t.Errorf("AuthBackend = %q, want %q", cfg.AuthBackend, AuthBackendLocal)
	}
}

func TestLoad_UnknownAuthBackend(t *testing.T) {
	os.Clearenv()
	os.Setenv("AUTH_BACKEND", "ldap")

	if _, err := Load(); err == nil {
		t.Fatal("Load should reject unknown AUTH_BACKEND")
	}
}

func TestLoad_FirebaseRequiresAPIKey(t *testing.T) {
	os.Clearenv()
	os.Setenv("AUTH_BACKEND", "firebase")

	if _, err := Load(); err == nil {
		t.Fatal("Load should require FIREBASE_API_KEY for the firebase backend")
	}

	os.Setenv("FIREBASE_API_KEY", "key")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AuthBackend != AuthBackendFirebase {
		t.Errorf("AuthBackend = %q, want firebase", cfg.AuthBackend)
	}
}

func TestLoad_BCRYPT_COSTRange(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  int
		err   bool
	}{
		{"valid min", "4", 4, false},
		{"valid max", "31", 31, false},
		{"too low", "3", 0, true},
		{"too high", "32", 0, true},
		{"zero", "0", 12, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("BCRYPT_COST", tc.value)

			cfg, err := Load()
			if tc.err {
				if err == nil {
					t.Fatal("Load should return error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.BcryptCost != tc.want {
				t.Errorf("BcryptCost = %d, want %d", cfg.BcryptCost, tc.want)
			}
		})
	}
}

func TestLoad_OTPReturnToClientProduction(t *testing.T) {
	os.Clearenv()
	os.Setenv("OTP_RETURN_TO_CLIENT", "true")
	os.Setenv("APP_ENV", "production")
	os.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	if err == nil {
		t.Fatal("Load should return error when OTP_RETURN_TO_CLIENT=true and APP_ENV=production")
	}
	if cfg != nil {
		t.Error("Load should return nil config on error")
	}
	if err.Error() != "config: OTP_RETURN_TO_CLIENT must not be true when APP_ENV=production" {
		t.Errorf("error = %q, want production message", err.Error())
	}
}

func TestLoad_ProductionRequiresSessionSecret(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "production")
	os.Setenv("SESSION_SECRET", "short")

	if _, err := Load(); err == nil {
		t.Fatal("Load should reject a short SESSION_SECRET in production")
	}
}

func TestLoad_OTPMaxAttemptsMustBePositive(t *testing.T) {
	os.Clearenv()
	os.Setenv("OTP_MAX_ATTEMPTS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Load should reject OTP_MAX_ATTEMPTS=0")
	}
}

func TestDurations(t *testing.T) {
	testCases := []struct {
		name string
		cfg  Config
		got  func(*Config) time.Duration
		want time.Duration
	}{
		{"access valid", Config{JWTAccessTTL: "30m"}, (*Config).AccessTTL, 30 * time.Minute},
		{"access invalid", Config{JWTAccessTTL: "bogus"}, (*Config).AccessTTL, 12 * time.Hour},
		{"access negative", Config{JWTAccessTTL: "-5m"}, (*Config).AccessTTL, 12 * time.Hour},
		{"session default", Config{}, (*Config).SessionTTL, 168 * time.Hour},
		{"otp ttl", Config{OTPTTL: "5m"}, (*Config).OTPChallengeTTL, 5 * time.Minute},
		{"otp ttl zero", Config{OTPTTL: "0"}, (*Config).OTPChallengeTTL, 10 * time.Minute},
		{"resend zero allowed", Config{OTPResendInterval: "0s"}, (*Config).OTPResendWait, 0},
		{"resend invalid", Config{OTPResendInterval: "x"}, (*Config).OTPResendWait, 30 * time.Second},
		{"delay", Config{SubmissionDelay: "2s"}, (*Config).SubmissionDelayDuration, 2 * time.Second},
		{"delay invalid", Config{SubmissionDelay: "later"}, (*Config).SubmissionDelayDuration, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			if got := tc.got(&cfg); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestKafkaBrokersList(t *testing.T) {
	cfg := &Config{KafkaBrokers: " a:9092, ,b:9092 "}
	got := cfg.KafkaBrokersList()
	want := []string{"a:9092", "b:9092"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("KafkaBrokersList = %v, want %v", got, want)
	}
	var nilCfg *Config
	if nilCfg.KafkaBrokersList() != nil {
		t.Error("nil config should return nil brokers")
	}
}

func TestAdminEmailList(t *testing.T) {
	cfg := &Config{AdminEmails: "Admin@Example.com,ops@example.com"}
	got := cfg.AdminEmailList()
	want := []string{"admin@example.com", "ops@example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AdminEmailList = %v, want %v", got, want)
	}
}

func TestLoad_ProxyAndGuardPolicy(t *testing.T) {
	os.Clearenv()
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TrustProxy || cfg.GuardPolicyFile != "" {
		t.Errorf("TrustProxy = %v, GuardPolicyFile = %q; want false and empty", cfg.TrustProxy, cfg.GuardPolicyFile)
	}

	os.Setenv("TRUST_PROXY", "true")
	os.Setenv("GUARD_POLICY_FILE", "/etc/bloodbank/guard.rego")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.TrustProxy {
		t.Error("TrustProxy = false, want true")
	}
	if cfg.GuardPolicyFile != "/etc/bloodbank/guard.rego" {
		t.Errorf("GuardPolicyFile = %q", cfg.GuardPolicyFile)
	}
}

func TestLoad_ProviderKeysFromEnvironment(t *testing.T) {
	os.Clearenv()
	env := map[string]string{
		"JWT_PRIVATE_KEY":      "private-pem",
		"JWT_PUBLIC_KEY":       "public-pem",
		"SMS_LOCAL_API_KEY":    "sl-key",
		"SMS_LOCAL_SENDER":     "NSSBLD",
		"TWILIO_ACCOUNT_SID":   "AC1",
		"TWILIO_AUTH_TOKEN":    "tw-token",
		"TWILIO_FROM":          "+15550001111",
		"FIREBASE_API_KEY":     "fb-key",
		"GOOGLE_CLIENT_ID":     "gid",
		"GOOGLE_CLIENT_SECRET": "gsecret",
		"GOOGLE_REDIRECT_URL":  "http://localhost:8080/api/auth/google/callback",
	}
	for k, v := range env {
		os.Setenv(k, v)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := map[string]string{
		"JWT_PRIVATE_KEY":      cfg.JWTPrivateKey,
		"JWT_PUBLIC_KEY":       cfg.JWTPublicKey,
		"SMS_LOCAL_API_KEY":    cfg.SMSLocalAPIKey,
		"SMS_LOCAL_SENDER":     cfg.SMSLocalSender,
		"TWILIO_ACCOUNT_SID":   cfg.TwilioAccountSID,
		"TWILIO_AUTH_TOKEN":    cfg.TwilioAuthToken,
		"TWILIO_FROM":          cfg.TwilioFrom,
		"FIREBASE_API_KEY":     cfg.FirebaseAPIKey,
		"GOOGLE_CLIENT_ID":     cfg.GoogleClientID,
		"GOOGLE_CLIENT_SECRET": cfg.GoogleClientSecret,
		"GOOGLE_REDIRECT_URL":  cfg.GoogleRedirectURL,
	}
	if !reflect.DeepEqual(got, env) {
		t.Errorf("config from environment = %v, want %v", got, env)
	}
}
