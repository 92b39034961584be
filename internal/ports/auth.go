package ports

// Package ports defines interfaces (hexagonal ports) for auth and forum
// behavior. Implementations live in internal/adapters and internal/data;
// orchestration in internal/service.

import (
	"context"

	domainauth "github.com/reddyt-app/reddyt/internal/domain/auth"
)

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin returns the provider authorization URL together with the opaque
	// state and nonce bound into it. No side effects beyond randomness.
	Begin(ctx context.Context) (authURL, state, nonce string, err error)

	// Exchange trades the authorization code for tokens and verifies the ID
	// token, including that its nonce claim equals the expected nonce.
	// Failures are *domainauth.ProviderError or *domainauth.TokenValidationError.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, domainauth.TokenSet, error)

	// LogoutURL builds the provider's end-session URL with id_token_hint and
	// post_logout_redirect_uri query parameters.
	LogoutURL(idToken, postLogoutRedirectURL string) (string, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	Nonce string
}

// SessionStore persists and retrieves browser sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
