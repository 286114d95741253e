package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"nss-bloodbank/backend/internal/identity/domain"
	"nss-bloodbank/backend/internal/security"
	"nss-bloodbank/backend/internal/session"
)

var admin = &domain.Identity{ID: "admin", Name: "NSS Admin", Email: "admin@nss.mmmut.ac.in", IsAdmin: true, Provider: domain.IdentityProviderMock}

func testCookies() *session.Cookies {
	return session.NewCookies(session.CookieConfig{
		Name:   "bloodbank_session",
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		MaxAge: time.Hour,
	})
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := IdentityFrom(ctx); ok {
		t.Fatal("empty context should carry no identity")
	}
	if UserID(ctx) != "" {
		t.Error("UserID should be empty")
	}
	ctx = WithIdentity(ctx, admin)
	id, ok := IdentityFrom(ctx)
	if !ok || id.ID != "admin" {
		t.Errorf("IdentityFrom = %+v, %v", id, ok)
	}
	if _, ok := IdentityFrom(WithIdentity(context.Background(), nil)); ok {
		t.Error("nil identity should not count as signed in")
	}
}

func TestRemoteIP(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		headers    map[string]string
		remote     string
		want       string
	}{
		{"socket", false, nil, "10.0.0.1:5555", "10.0.0.1"},
		{"forwarded ignored", false, map[string]string{"X-Forwarded-For": "1.2.3.4"}, "10.0.0.1:5555", "10.0.0.1"},
		{"forwarded first", true, map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.2"}, "10.0.0.1:5555", "1.2.3.4"},
		{"real ip", true, map[string]string{"X-Real-IP": "5.6.7.8"}, "10.0.0.1:5555", "5.6.7.8"},
		{"no port", false, nil, "10.0.0.1", "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := RemoteIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("RemoteIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientIP_Middleware(t *testing.T) {
	var got string
	h := ClientIP(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClientIPFrom(r.Context())
	}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.168.1.9:1234"
	h.ServeHTTP(httptest.NewRecorder(), r)
	if got != "192.168.1.9" {
		t.Errorf("client ip = %q", got)
	}
	if ClientIPFrom(context.Background()) != "unknown" {
		t.Error("missing IP should read as unknown")
	}
}

func sessionCookie(t *testing.T, cookies *session.Cookies) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	if err := session.NewStore(cookies.For(rec, req), nil).Set(context.Background(), admin); err != nil {
		t.Fatalf("Set: %v", err)
	}
	return rec.Result().Cookies()[0]
}

func TestAuthenticate_Cookie(t *testing.T) {
	cookies := testCookies()
	var gotID *domain.Identity
	var gotSession *session.Store
	h := Authenticate(cookies, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = IdentityFrom(r.Context())
		gotSession = SessionFrom(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	r.AddCookie(sessionCookie(t, cookies))
	h.ServeHTTP(httptest.NewRecorder(), r)

	if gotID == nil || *gotID != *admin {
		t.Errorf("identity = %+v, want admin", gotID)
	}
	if gotSession == nil {
		t.Fatal("session store should be in context")
	}
	if cur, ok := gotSession.Current(); !ok || cur.ID != "admin" {
		t.Errorf("session current = %+v, %v", cur, ok)
	}
}

func TestAuthenticate_Bearer(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	token, _, err := tokens.Issue(admin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	var gotID *domain.Identity
	h := Authenticate(testCookies(), tokens, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = IdentityFrom(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), r)
	if gotID == nil || gotID.ID != "admin" || !gotID.IsAdmin {
		t.Errorf("identity = %+v", gotID)
	}

	gotID = nil
	r = httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	h.ServeHTTP(httptest.NewRecorder(), r)
	if gotID != nil {
		t.Errorf("invalid token should not authenticate, got %+v", gotID)
	}
}

func TestExtractBearer(t *testing.T) {
	tests := map[string]string{
		"":              "",
		"Basic abc":     "",
		"Bearer abc":    "abc",
		"bearer  xyz ":  "xyz",
		"Bearer":        "",
		"BEARER tok.en": "tok.en",
	}
	for header, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		if got := extractBearer(r); got != want {
			t.Errorf("extractBearer(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestRequestLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := RequestLog(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(entries))
	}
	if entries[0].Level != zap.WarnLevel {
		t.Errorf("level = %v, want warn for 5xx", entries[0].Level)
	}
	if entries[0].ContextMap()["status"] != int64(http.StatusServiceUnavailable) {
		t.Errorf("status field = %v", entries[0].ContextMap()["status"])
	}
}

type auditCall struct{ userID, action, resource string }

type fakeAuditLogger struct {
	mu    sync.Mutex
	calls []auditCall
}

func (f *fakeAuditLogger) LogEvent(_ context.Context, userID, action, resource, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, auditCall{userID, action, resource})
}

func TestAudit(t *testing.T) {
	logger := &fakeAuditLogger{}
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Header.Get("X-Test-User") != "" {
				req = req.WithContext(WithIdentity(req.Context(), admin))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Use(Audit(logger, map[string]bool{"/api/auth/login": true}))
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) }
	r.HandleFunc("/api/requests", ok).Methods(http.MethodPost, http.MethodGet)
	r.HandleFunc("/api/auth/login", ok).Methods(http.MethodPost)

	send := func(method, path string, signedIn bool) {
		req := httptest.NewRequest(method, path, nil)
		if signedIn {
			req.Header.Set("X-Test-User", "1")
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	send(http.MethodPost, "/api/requests", true)
	send(http.MethodGet, "/api/requests", true)
	send(http.MethodPost, "/api/requests", false)
	send(http.MethodPost, "/api/auth/login", true)

	if len(logger.calls) != 1 {
		t.Fatalf("audit calls = %+v, want 1", logger.calls)
	}
	want := auditCall{"admin", "create", "blood_request"}
	if logger.calls[0] != want {
		t.Errorf("audit call = %+v, want %+v", logger.calls[0], want)
	}
}
