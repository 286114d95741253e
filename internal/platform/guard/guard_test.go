package guard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"nss-bloodbank/backend/internal/identity/domain"
	"nss-bloodbank/backend/internal/platform/httpjson"
	"nss-bloodbank/backend/internal/server/middleware"
)

var (
	admin = &domain.Identity{ID: "admin", Name: "NSS Admin", Email: "admin@nss.mmmut.ac.in", IsAdmin: true, Provider: domain.IdentityProviderMock}
	donor = &domain.Identity{ID: "u-1", Name: "Rahul Kumar", Email: "rahul@example.com", Provider: domain.IdentityProviderLocal}
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		id   *domain.Identity
		want Decision
	}{
		{"no identity", nil, Decision{RedirectTo: LoginPath}},
		{"non-admin", donor, Decision{RedirectTo: LoginPath}},
		{"admin", admin, Decision{Allowed: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.id); got != tt.want {
				t.Errorf("Decide = %+v, want %+v", got, tt.want)
			}
			if got := Default.Decide(context.Background(), tt.id); got != tt.want {
				t.Errorf("Default.Decide = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPolicyGuard_DefaultPolicyMatchesDecide(t *testing.T) {
	ctx := context.Background()
	g, err := NewPolicyGuard(ctx, "", nil)
	if err != nil {
		t.Fatalf("NewPolicyGuard: %v", err)
	}
	if err := g.HealthCheck(ctx); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	for _, id := range []*domain.Identity{nil, donor, admin} {
		if got, want := g.Decide(ctx, id), Decide(id); got != want {
			t.Errorf("Decide(%v) = %+v, want %+v", id, got, want)
		}
	}
}

func TestPolicyGuard_CustomPolicy(t *testing.T) {
	const module = `package bloodbank.route_guard

default allow := false

allow if {
	input.identity.is_admin
	endswith(input.identity.email, "@nss.mmmut.ac.in")
}
`
	ctx := context.Background()
	g, err := NewPolicyGuard(ctx, module, nil)
	if err != nil {
		t.Fatalf("NewPolicyGuard: %v", err)
	}
	if !g.Decide(ctx, admin).Allowed {
		t.Error("campus admin should be allowed")
	}
	outside := admin.Clone()
	outside.Email = "admin@example.com"
	if g.Decide(ctx, outside).Allowed {
		t.Error("off-campus admin should be denied by the custom policy")
	}
}

func TestPolicyGuard_CompileError(t *testing.T) {
	if _, err := NewPolicyGuard(context.Background(), "package broken\nallow if {", nil); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestPolicyGuard_NonBoolFallsBack(t *testing.T) {
	const module = `package bloodbank.route_guard

allow := "yes"
`
	ctx := context.Background()
	g, err := NewPolicyGuard(ctx, module, nil)
	if err != nil {
		t.Fatalf("NewPolicyGuard: %v", err)
	}
	if !g.Decide(ctx, admin).Allowed {
		t.Error("fallback should admit admin")
	}
	if g.Decide(ctx, donor).Allowed {
		t.Error("fallback should deny non-admin")
	}
}

type fakeAudit struct{ actions []string }

func (f *fakeAudit) LogEvent(_ context.Context, _, action, _, _ string) {
	f.actions = append(f.actions, action)
}

func serveGuarded(id *domain.Identity, accept, path string, a *fakeAudit) *httptest.ResponseRecorder {
	h := RequireAdmin(nil, a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if accept != "" {
		r.Header.Set("Accept", accept)
	}
	if id != nil {
		r = r.WithContext(middleware.WithIdentity(r.Context(), id))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		id         *domain.Identity
		accept     string
		path       string
		wantStatus int
	}{
		{"admin json", admin, "application/json", "/api/admin/dashboard", http.StatusOK},
		{"anonymous json", nil, "application/json", "/api/admin/dashboard", http.StatusUnauthorized},
		{"donor json", donor, "", "/api/admin/dashboard", http.StatusForbidden},
		{"anonymous browser", nil, "text/html", "/admin", http.StatusSeeOther},
		{"donor browser", donor, "text/html", "/admin", http.StatusSeeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveGuarded(tt.id, tt.accept, tt.path, &fakeAudit{})
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			switch tt.wantStatus {
			case http.StatusSeeOther:
				if loc := rec.Header().Get("Location"); loc != LoginPath {
					t.Errorf("Location = %q, want %q", loc, LoginPath)
				}
			case http.StatusUnauthorized, http.StatusForbidden:
				var body httpjson.ErrorBody
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if body.Redirect != LoginPath || body.Error == "" {
					t.Errorf("body = %+v", body)
				}
			}
		})
	}
}

func TestRequireAdmin_AuditsDeniedIdentity(t *testing.T) {
	a := &fakeAudit{}
	serveGuarded(donor, "application/json", "/api/admin/audit", a)
	serveGuarded(nil, "application/json", "/api/admin/audit", a)
	if len(a.actions) != 1 || a.actions[0] != "access_denied" {
		t.Errorf("audit actions = %v, want one access_denied", a.actions)
	}
}
