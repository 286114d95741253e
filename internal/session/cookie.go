package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

// identityKey is the session value the serialized identity lives under.
const identityKey = "identity"

// CookieConfig configures the signed session cookie.
type CookieConfig struct {
	Name   string
	Secret []byte
	MaxAge time.Duration
	Secure bool
}

// Cookies builds per-request cookie storages sharing one gorilla/sessions codec.
type Cookies struct {
	name  string
	store *sessions.CookieStore
}

// NewCookies returns a factory for CookieStorage. Cookies are HttpOnly and SameSite=Lax.
func NewCookies(cfg CookieConfig) *Cookies {
	store := sessions.NewCookieStore(cfg.Secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Cookies{name: cfg.Name, store: store}
}

// Name returns the cookie name.
func (c *Cookies) Name() string { return c.name }

// For returns a Storage reading from r and writing Set-Cookie headers to w.
func (c *Cookies) For(w http.ResponseWriter, r *http.Request) *CookieStorage {
	return &CookieStorage{cookies: c, w: w, r: r}
}

// CookieStorage is a Storage bound to one HTTP exchange.
type CookieStorage struct {
	cookies *Cookies
	w       http.ResponseWriter
	r       *http.Request
}

// Load returns ErrNoRecord when the cookie is missing, and a decode error when its signature fails.
func (c *CookieStorage) Load(context.Context) ([]byte, error) {
	s, err := c.cookies.store.Get(c.r, c.cookies.name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	v, ok := s.Values[identityKey].(string)
	if !ok || v == "" {
		return nil, ErrNoRecord
	}
	return []byte(v), nil
}

func (c *CookieStorage) Save(_ context.Context, data []byte) error {
	s, _ := c.cookies.store.Get(c.r, c.cookies.name)
	s.Values[identityKey] = string(data)
	return s.Save(c.r, c.w)
}

// Delete expires the cookie with MaxAge -1.
func (c *CookieStorage) Delete(context.Context) error {
	s, _ := c.cookies.store.Get(c.r, c.cookies.name)
	delete(s.Values, identityKey)
	s.Options.MaxAge = -1
	return s.Save(c.r, c.w)
}
