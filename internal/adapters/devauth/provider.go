package devauth

// Package devauth provides a config-driven AuthProvider for local development.
// It short-circuits the OAuth flow by redirecting straight back to our own
// callback and returning a fixed identity from Exchange.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	domainauth "github.com/reddyt-app/reddyt/internal/domain/auth"
	"github.com/reddyt-app/reddyt/internal/ports"
)

// Config controls the dev auth provider behavior.
type Config struct {
	Subject         string
	Email           string
	GivenName       string
	FamilyName      string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.AuthProvider for local development.
type Provider struct {
	identity        domainauth.Identity
	sessionDuration time.Duration
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Subject == "" {
		return nil, errors.New("dev auth: Subject is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	given := cfg.GivenName
	if given == "" {
		given = "Dev"
	}
	family := cfg.FamilyName
	if family == "" {
		family = "User"
	}
	return &Provider{
		identity: domainauth.Identity{
			Subject:    cfg.Subject,
			Email:      cfg.Email,
			GivenName:  given,
			FamilyName: family,
		},
		sessionDuration: dur,
	}, nil
}

// Begin returns a local callback URL and fresh state and nonce, so the
// handler and session plumbing run exactly as they do against a real IdP.
func (p *Provider) Begin(_ context.Context) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	authURL := "/auth/callback?code=dev&state=" + url.QueryEscape(state)
	return authURL, state, nonce, nil
}

// Exchange returns the configured identity with a synthetic token set.
func (p *Provider) Exchange(_ context.Context, in ports.ExchangeInput) (domainauth.Identity, domainauth.TokenSet, error) {
	if in.Nonce == "" {
		return domainauth.Identity{}, domainauth.TokenSet{}, &domainauth.TokenValidationError{
			Reason: "no pending nonce for this session",
		}
	}
	tokens := domainauth.TokenSet{
		AccessToken: "dev-access-token",
		IDToken:     "dev-id-token",
		Expiry:      time.Now().Add(p.sessionDuration),
	}
	return p.identity, tokens, nil
}

// LogoutURL sends the browser back to login; there is no IdP session to end.
func (p *Provider) LogoutURL(_, postLogoutRedirectURL string) (string, error) {
	if postLogoutRedirectURL == "" {
		return "/auth/login", nil
	}
	return postLogoutRedirectURL, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, (n*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < n {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}
