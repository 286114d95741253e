// Package firebase implements the identity backend on top of the Firebase Identity Toolkit REST
// API, with Google redirect sign-in through OAuth2.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"nss-bloodbank/backend/internal/identity/domain"
	"nss-bloodbank/backend/internal/identity/service"
)

const (
	// DefaultBaseURL is the Identity Toolkit v1 endpoint.
	DefaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

	defaultTimeout = 15 * time.Second
)

// Config configures a Backend. Google sign-in is disabled unless GoogleClientID and
// GoogleRedirectURL are set.
type Config struct {
	APIKey             string
	BaseURL            string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	Admins             service.AdminList
	HTTPClient         *http.Client
}

// Backend talks to Firebase Authentication.
type Backend struct {
	apiKey  string
	baseURL string
	admins  service.AdminList
	client  *http.Client
	oauth   *oauth2.Config
}

// New returns a Backend. APIKey is required.
func New(cfg Config) (*Backend, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("firebase: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	b := &Backend{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		admins:  cfg.Admins,
		client:  cfg.HTTPClient,
	}
	if cfg.GoogleClientID != "" && cfg.GoogleRedirectURL != "" {
		b.oauth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	return b, nil
}

// APIError is the error envelope returned by Identity Toolkit.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("firebase: %d %s", e.Status, e.Message)
}

type authResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IDToken     string `json:"idToken"`
	FullName    string `json:"fullName"`
}

// Login signs in with email and password. Any provider failure becomes ErrInvalidCredentials.
func (b *Backend) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	var resp authResponse
	err := b.call(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             strings.TrimSpace(email),
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, service.ErrInvalidCredentials
		}
		return nil, err
	}
	return b.identity(resp.LocalID, resp.Email, resp.DisplayName, domain.IdentityProviderFirebase), nil
}

// Register creates the account and sets its display name.
func (b *Backend) Register(ctx context.Context, in service.RegisterInput) (*domain.Identity, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var resp authResponse
	err := b.call(ctx, "accounts:signUp", map[string]any{
		"email":             in.Email,
		"password":          in.Password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, registrationError(err)
	}
	err = b.call(ctx, "accounts:update", map[string]any{
		"idToken":           resp.IDToken,
		"displayName":       in.Name,
		"returnSecureToken": false,
	}, nil)
	if err != nil {
		return nil, registrationError(err)
	}
	return b.identity(resp.LocalID, resp.Email, in.Name, domain.IdentityProviderFirebase), nil
}

func registrationError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s", service.ErrRegistrationFailed, apiErr.Message)
	}
	return err
}

// Logout is a no-op: Identity Toolkit sessions end when the client drops its ID token.
func (b *Backend) Logout(context.Context, *domain.Identity) error { return nil }

// ProviderRedirectURL returns the Google consent URL.
func (b *Backend) ProviderRedirectURL(state string) (string, error) {
	if b.oauth == nil {
		return "", service.ErrProviderUnavailable
	}
	return b.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account")), nil
}

// CompleteProviderSignIn exchanges the Google authorization code and signs the resulting ID token
// into Firebase.
func (b *Backend) CompleteProviderSignIn(ctx context.Context, code string) (*domain.Identity, error) {
	if b.oauth == nil {
		return nil, service.ErrProviderUnavailable
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, b.client)
	tok, err := b.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("firebase: exchange code: %w", err)
	}
	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return nil, errors.New("firebase: token response carried no id_token")
	}
	postBody := url.Values{"id_token": {idToken}, "providerId": {"google.com"}}.Encode()
	var resp authResponse
	err = b.call(ctx, "accounts:signInWithIdp", map[string]any{
		"requestUri":          b.oauth.RedirectURL,
		"postBody":            postBody,
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	name := resp.DisplayName
	if name == "" {
		name = resp.FullName
	}
	return b.identity(resp.LocalID, resp.Email, name, domain.IdentityProviderGoogle), nil
}

func (b *Backend) identity(id, email, name string, provider domain.IdentityProvider) *domain.Identity {
	email = strings.ToLower(email)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	return &domain.Identity{
		ID:       id,
		Name:     name,
		Email:    email,
		IsAdmin:  b.admins.Contains(email),
		Provider: provider,
	}
}

func (b *Backend) call(ctx context.Context, method string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	endpoint := b.baseURL + "/" + method + "?key=" + url.QueryEscape(b.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("firebase: %s: %w", method, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("firebase: %s: read body: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		var envelope struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(data, &envelope)
		msg := envelope.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("firebase: %s: decode: %w", method, err)
	}
	return nil
}
