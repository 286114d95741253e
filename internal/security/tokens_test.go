package security

import (
	"errors"
	"testing"
	"time"

	"nss-bloodbank/backend/internal/identity/domain"
)

var admin = &domain.Identity{
	ID:       "admin",
	Name:     "NSS Admin",
	Email:    "admin@nss.mmmut.ac.in",
	IsAdmin:  true,
	Provider: domain.IdentityProviderMock,
}

func TestTokenProvider_IssueAndValidate(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	token, exp, err := p.Issue(admin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("token is empty")
	}
	if !exp.After(time.Now()) {
		t.Fatalf("expiry %v is not in the future", exp)
	}

	got, err := p.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if *got != *admin {
		t.Errorf("Validate = %+v, want %+v", got, admin)
	}
}

func TestTokenProvider_IssueRejectsInvalidIdentity(t *testing.T) {
	p, _ := NewTestTokenProvider()
	if _, _, err := p.Issue(&domain.Identity{Email: "x@y.z"}); err == nil {
		t.Fatal("Issue should reject identity without id")
	}
}

func TestTokenProvider_ValidateInvalid(t *testing.T) {
	p, _ := NewTestTokenProvider()
	other, _ := NewTestTokenProvider()
	foreign, _, err := other.Issue(admin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	for name, token := range map[string]string{
		"garbage":     "invalid-token",
		"empty":       "",
		"foreign key": foreign,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := p.Validate(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestTokenProvider_Expired(t *testing.T) {
	p, _ := NewTestTokenProvider()
	issued := time.Now().Add(-time.Hour)
	p.now = func() time.Time { return issued }
	token, _, err := p.Issue(admin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	p.now = time.Now
	if _, err := p.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate expired err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenProvider_WrongAudience(t *testing.T) {
	key, _ := GenerateSigningKey()
	issuer := NewTokenProvider(key, key.Public(), "test-issuer", "other-audience", time.Minute)
	verifier := NewTokenProvider(key, key.Public(), "test-issuer", "test-audience", time.Minute)
	token, _, _ := issuer.Issue(admin)
	if _, err := verifier.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate err = %v, want ErrInvalidToken", err)
	}
}
