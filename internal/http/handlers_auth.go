package httpx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/reddyt-app/reddyt/internal/domain/auth"
	"github.com/reddyt-app/reddyt/internal/observability/metrics"
	"github.com/reddyt-app/reddyt/internal/service"
)

// sessionCookieName is the cookie carrying the server-side session ID. The
// browser only ever holds this opaque ID; state, nonce, and tokens stay in the
// session store.
const sessionCookieName = "session_id"

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, input service.LogoutInput) (string, error)
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	// TrustProxy enables honoring X-Forwarded-Proto when deciding whether
	// cookies are marked Secure.
	TrustProxy bool
	// PublicURL is the externally visible base URL, used to build the
	// post-logout redirect back to the login page.
	PublicURL string
	Metrics   *metrics.HTTP
	Logger    *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) recordLogin(outcome string) {
	if h.Metrics != nil {
		h.Metrics.RecordLogin(outcome)
	}
}

// Login handles the login initiation endpoint.
// GET /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.BeginLogin(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     err,
		})
		return
	}

	// The pending session only needs to survive the round trip to the
	// identity provider.
	h.setSessionCookie(w, r, result.Session)

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback handles the OAuth callback endpoint.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	if sessionCookie, err := r.Cookie(sessionCookieName); err == nil {
		sessionID = sessionCookie.Value
	}

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		SessionID: sessionID,
		Code:      r.URL.Query().Get("code"),
		State:     r.URL.Query().Get("state"),
	})
	if err != nil {
		h.writeCallbackFailure(w, r, err)
		return
	}

	// Extend the cookie to match the authenticated session lifetime.
	h.setSessionCookie(w, r, result.Session)
	h.recordLogin("success")

	http.Redirect(w, r, "/", http.StatusFound)
}

// writeCallbackFailure renders a login failure. Token validation failures get
// a distinct warning since they can indicate a tampered or replayed callback;
// provider errors surface the provider's own description to the user.
func (h *AuthHandlers) writeCallbackFailure(w http.ResponseWriter, r *http.Request, err error) {
	description := "unable to complete login"

	var validationErr *domainauth.TokenValidationError
	var providerErr *domainauth.ProviderError
	switch {
	case errors.As(err, &validationErr):
		h.logger().WarnContext(r.Context(), "token validation failed during login",
			"reason", validationErr.Reason, "error", err)
		description = validationErr.Reason
		h.recordLogin("validation_failure")
	case errors.As(err, &providerErr):
		h.logger().ErrorContext(r.Context(), "provider rejected login", "error", err)
		description = providerErr.UserMessage()
		h.recordLogin("provider_failure")
	default:
		h.logger().ErrorContext(r.Context(), "login completion failed", "error", err)
		h.recordLogin("failure")
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "Authentication failed: %s\n", description)
}

// Logout handles the logout endpoint.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	if sessionCookie, err := r.Cookie(sessionCookieName); err == nil {
		sessionID = sessionCookie.Value
	}

	logoutURL, err := h.Svc.Logout(r.Context(), service.LogoutInput{
		SessionID:             sessionID,
		PostLogoutRedirectURL: h.PublicURL + "/auth/login",
	})

	// The client cookie is cleared regardless of what the server-side
	// logout decided.
	h.clearCookie(w, r, sessionCookieName)

	if err != nil {
		if !errors.Is(err, domainauth.ErrNoActiveToken) {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
		http.Redirect(w, r, "/auth/login", http.StatusFound)
		return
	}

	http.Redirect(w, r, logoutURL, http.StatusFound)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"authenticated": false,
		})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil || !session.Authenticated() {
		// Session is invalid, pending, or expired; clear the cookie.
		h.clearCookie(w, r, sessionCookieName)
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"authenticated": false,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user":          session.Identity,
		"expires_at":    session.ExpiresAt,
	})
}

func (h *AuthHandlers) isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return h.TrustProxy && strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// clearCookie clears a cookie by setting it to expire immediately. It mirrors
// the attributes used when setting cookies so browsers match them on deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
