package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Identity represents the authenticated principal asserted by the identity
// provider's ID token. All fields are required claims; the oidc adapter
// rejects tokens that omit any of them.
type Identity struct {
	Subject    string `json:"sub"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// TokenSet holds the tokens returned by a successful code exchange.
// The raw ID token is retained so logout can pass it as id_token_hint.
type TokenSet struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	IDToken      string    `json:"id_token"`
	Expiry       time.Time `json:"expiry"`
}

// Session is the server-side record for one browser session.
// ID is an opaque identifier carried by the session cookie.
//
// A session moves through three states: empty (anonymous), pending
// (State and Nonce set while the browser is at the identity provider),
// and authenticated (Tokens and Identity set, Nonce consumed).
// Tokens and Identity are always written together in a single Save.
type Session struct {
	ID        string    `json:"id"`
	State     string    `json:"state,omitempty"`
	Nonce     string    `json:"nonce,omitempty"`
	Tokens    *TokenSet `json:"tokens,omitempty"`
	Identity  *Identity `json:"identity,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticated reports whether the session has completed a login.
func (s Session) Authenticated() bool {
	return s.Identity != nil && s.Tokens != nil
}
