package oidc

// Package oidc implements the AuthProvider port against an OpenID Connect
// identity provider using the discovery document, authorization-code flow,
// and nonce-checked ID tokens.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/reddyt-app/reddyt/internal/domain/auth"
	"github.com/reddyt-app/reddyt/internal/ports"
	"golang.org/x/oauth2"
)

// stateLength is the length of generated state and nonce values in URL-safe
// characters. 32 base64url characters carry 24 bytes of entropy.
const stateLength = 32

// Provider implements ports.AuthProvider using OIDC/OAuth2.
type Provider struct {
	config     *oauth2.Config
	logoutURL  string
	httpClient *http.Client

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	// LogoutURL overrides the end_session_endpoint advertised by the
	// discovery document. Optional.
	LogoutURL  string
	HTTPClient *http.Client // Optional, defaults to a 10s-timeout client
}

// discoveryClaims captures the extra discovery fields go-oidc does not expose
// directly.
type discoveryClaims struct {
	EndSessionEndpoint string `json:"end_session_endpoint"`
}

// NewProvider creates a new OIDC provider. The discovery document is fetched
// once here; failure is a ConfigurationError and fatal to the caller.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, &domainauth.ConfigurationError{Reason: "client ID is required"}
	}
	if config.ClientSecret == "" {
		return nil, &domainauth.ConfigurationError{Reason: "client secret is required"}
	}
	if config.RedirectURL == "" {
		return nil, &domainauth.ConfigurationError{Reason: "redirect URL is required"}
	}
	if config.DiscoveryURL == "" {
		return nil, &domainauth.ConfigurationError{Reason: "discovery URL is required"}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	p := &Provider{
		logoutURL:  config.LogoutURL,
		httpClient: httpClient,
	}

	// Single discovery fetch; metadata is immutable for the process lifetime.
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, &domainauth.ConfigurationError{Reason: "fetch discovery document", Err: err}
	}
	p.oidcProvider = op
	p.verifier = op.Verifier(&gooidc.Config{ClientID: config.ClientID})

	if p.logoutURL == "" {
		var claims discoveryClaims
		if claimsErr := op.Claims(&claims); claimsErr == nil && claims.EndSessionEndpoint != "" {
			p.logoutURL = claims.EndSessionEndpoint
		} else {
			// Keycloak's conventional end-session path.
			p.logoutURL = issuer + "/protocol/openid-connect/logout"
		}
	}

	scope := config.Scope
	if scope == "" {
		scope = "openid profile email"
	}
	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       strings.Fields(scope),
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

// Begin builds the authorization redirect with fresh state and nonce.
func (p *Provider) Begin(_ context.Context) (string, string, string, error) {
	state, err := generateRandomString(stateLength)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(stateLength)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
	)
	return authURL, state, nonce, nil
}

// Exchange performs the token-endpoint exchange and verifies the ID token.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, domainauth.TokenSet, error) {
	if in.Code == "" {
		return domainauth.Identity{}, domainauth.TokenSet{}, &domainauth.ProviderError{
			Description: "authorization code is missing",
		}
	}
	if in.Nonce == "" {
		return domainauth.Identity{}, domainauth.TokenSet{}, &domainauth.TokenValidationError{
			Reason: "no pending nonce for this session",
		}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, domainauth.TokenSet{}, providerErrorFrom(err)
	}

	rawID, ok := token.Extra("id_token").(string)
	if !ok || rawID == "" {
		return domainauth.Identity{}, domainauth.TokenSet{}, &domainauth.TokenValidationError{
			Reason: "token response contains no id_token",
		}
	}

	idToken, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.Identity{}, domainauth.TokenSet{}, &domainauth.TokenValidationError{
			Reason: "verify signature, issuer, audience, expiry",
			Err:    err,
		}
	}

	var claims idTokenClaims
	if claimsErr := idToken.Claims(&claims); claimsErr != nil {
		return domainauth.Identity{}, domainauth.TokenSet{}, &domainauth.TokenValidationError{
			Reason: "parse id token claims",
			Err:    claimsErr,
		}
	}

	identity, err := identityFromClaims(claims, in.Nonce)
	if err != nil {
		return domainauth.Identity{}, domainauth.TokenSet{}, err
	}

	expiry := token.Expiry
	if expiry.IsZero() {
		expiry = time.Now().Add(time.Hour)
	}
	tokens := domainauth.TokenSet{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		IDToken:      rawID,
		Expiry:       expiry,
	}
	return identity, tokens, nil
}

// LogoutURL builds the RP-initiated logout redirect.
func (p *Provider) LogoutURL(idToken, postLogoutRedirectURL string) (string, error) {
	if p.logoutURL == "" {
		return "", &domainauth.ConfigurationError{Reason: "no end-session endpoint configured"}
	}
	u, err := url.Parse(p.logoutURL)
	if err != nil {
		return "", &domainauth.ConfigurationError{Reason: "invalid end-session endpoint", Err: err}
	}
	q := u.Query()
	if idToken != "" {
		q.Set("id_token_hint", idToken)
	}
	if postLogoutRedirectURL != "" {
		q.Set("post_logout_redirect_uri", postLogoutRedirectURL)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// idTokenClaims is the claim shape expected from the identity provider.
type idTokenClaims struct {
	Subject    string `json:"sub"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Nonce      string `json:"nonce"`
}

// identityFromClaims validates the nonce and required claims and maps them
// into a domain Identity. The nonce comparison is what binds the callback to
// the login that initiated it; it must never be skipped.
func identityFromClaims(c idTokenClaims, expectedNonce string) (domainauth.Identity, error) {
	if c.Nonce != expectedNonce {
		return domainauth.Identity{}, &domainauth.TokenValidationError{Reason: "nonce mismatch"}
	}
	for _, claim := range []struct{ name, value string }{
		{"sub", c.Subject},
		{"email", c.Email},
		{"given_name", c.GivenName},
		{"family_name", c.FamilyName},
	} {
		if claim.value == "" {
			return domainauth.Identity{}, &domainauth.TokenValidationError{
				Reason: "missing required claim " + claim.name,
			}
		}
	}
	return domainauth.Identity{
		Subject:    c.Subject,
		Email:      c.Email,
		GivenName:  c.GivenName,
		FamilyName: c.FamilyName,
	}, nil
}

// providerErrorFrom maps an oauth2 exchange failure to a ProviderError,
// pulling the provider's error code and description out when present.
func providerErrorFrom(err error) *domainauth.ProviderError {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return &domainauth.ProviderError{
			Code:        retrieveErr.ErrorCode,
			Description: retrieveErr.ErrorDescription,
			Err:         err,
		}
	}
	return &domainauth.ProviderError{Err: err}
}

// generateRandomString generates a cryptographically secure URL-safe random
// string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < length {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:length], nil
}
