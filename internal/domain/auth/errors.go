package auth

import (
	"errors"
	"fmt"
)

// ErrNoActiveToken is returned when logout is attempted on a session that
// holds no token set. Callers recover by redirecting to login.
var ErrNoActiveToken = errors.New("no active token in session")

// ConfigurationError indicates missing or invalid provider configuration,
// including a failed discovery-document fetch. Fatal at startup.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth configuration: %s: %v", e.Reason, e.Err)
	}
	return "auth configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ProviderError indicates the identity provider rejected the code exchange or
// was unreachable. Description carries the provider's error_description when
// one was returned, and is safe to surface to the user.
type ProviderError struct {
	Code        string
	Description string
	Err         error
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("identity provider error %s: %s", e.Code, e.Description)
	}
	if e.Err != nil {
		return fmt.Sprintf("identity provider unreachable: %v", e.Err)
	}
	return "identity provider error"
}

func (e *ProviderError) Unwrap() error { return e.Err }

// UserMessage returns the description shown to the user on a failed callback.
func (e *ProviderError) UserMessage() string {
	if e.Description != "" {
		return e.Description
	}
	return "the identity provider rejected the request"
}

// TokenValidationError indicates the returned ID token failed verification:
// signature, issuer, audience, expiry, a missing required claim, or a nonce
// mismatch. Logged distinctly from ProviderError since a nonce mismatch may
// indicate an authorization-code injection attempt.
type TokenValidationError struct {
	Reason string
	Err    error
}

func (e *TokenValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("id token validation: %s: %v", e.Reason, e.Err)
	}
	return "id token validation: " + e.Reason
}

func (e *TokenValidationError) Unwrap() error { return e.Err }
