package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/reddyt-app/reddyt/internal/domain/auth"
	"github.com/reddyt-app/reddyt/internal/domain/model"
	"github.com/reddyt-app/reddyt/internal/ports"
)

// pendingSessionTTL bounds how long a login may sit at the identity provider
// before the nonce and state age out.
const pendingSessionTTL = 10 * time.Minute

var errSessionExpired = errors.New("session expired")

// UserEnsurer materializes a local user record for an authenticated identity.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, identity domainauth.Identity) (*model.User, error)
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Users    UserEnsurer
	Logger   *slog.Logger
}

// AuthService orchestrates the login state machine: an anonymous session
// becomes pending at login start, authenticated after a verified callback,
// and anonymous again at logout.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	users    UserEnsurer
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		users:    opts.Users,
		logger:   logger,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	Session domainauth.Session
}

// BeginLogin creates a pending session holding a fresh state and nonce and
// returns the provider authorization URL to redirect the browser to.
func (s *AuthService) BeginLogin(ctx context.Context) (*BeginLoginResult, error) {
	authURL, state, nonce, err := s.provider.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	sess := domainauth.Session{
		ID:        uuid.New().String(),
		State:     state,
		Nonce:     nonce,
		ExpiresAt: time.Now().Add(pendingSessionTTL),
	}
	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		return nil, fmt.Errorf("save pending session: %w", saveErr)
	}

	return &BeginLoginResult{AuthURL: authURL, Session: sess}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	SessionID string
	Code      string
	State     string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
	User    *model.User
}

// CompleteLogin validates the callback against the pending session, exchanges
// the code, ensures a local user, and commits tokens and identity together.
//
// The nonce is single use: it is cleared from the session before the exchange
// is attempted, so a replayed callback fails whether or not this one succeeds.
// On failure the session is never advanced to the authenticated state.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, &domainauth.ProviderError{Description: "authorization response contains no code"}
	}
	if input.SessionID == "" {
		return nil, &domainauth.TokenValidationError{Reason: "no pending login session"}
	}

	sess, err := s.sessions.Get(ctx, input.SessionID)
	if err != nil {
		return nil, &domainauth.TokenValidationError{Reason: "no pending login session", Err: err}
	}
	if sess.Nonce == "" {
		return nil, &domainauth.TokenValidationError{Reason: "nonce missing or already used"}
	}
	if input.State == "" || input.State != sess.State {
		return nil, &domainauth.TokenValidationError{Reason: "state mismatch"}
	}

	// Consume the nonce before talking to the provider.
	nonce := sess.Nonce
	sess.Nonce = ""
	sess.State = ""
	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		return nil, fmt.Errorf("consume nonce: %w", saveErr)
	}

	identity, tokens, err := s.provider.Exchange(ctx, ports.ExchangeInput{Code: input.Code, Nonce: nonce})
	if err != nil {
		return nil, err
	}

	user, err := s.users.EnsureUser(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("ensure local user: %w", err)
	}

	sess.Tokens = &tokens
	sess.Identity = &identity
	sess.ExpiresAt = tokens.Expiry
	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	s.logger.InfoContext(ctx, "login completed", "sub", identity.Subject)
	return &CompleteLoginResult{Session: sess, User: user}, nil
}

// GetSession retrieves a session by ID, evicting it when expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(sess.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &sess, nil
}

// LogoutInput groups parameters for logout.
type LogoutInput struct {
	SessionID             string
	PostLogoutRedirectURL string
}

// Logout clears the server-side session and returns the provider end-session
// URL to redirect to. The session is destroyed before the URL is built, so a
// failed redirect never leaves credentials behind. When the session holds no
// token it returns domainauth.ErrNoActiveToken and the caller redirects to
// login instead.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) (string, error) {
	if input.SessionID == "" {
		return "", domainauth.ErrNoActiveToken
	}

	sess, err := s.sessions.Get(ctx, input.SessionID)
	if err != nil {
		return "", domainauth.ErrNoActiveToken
	}

	if !sess.Authenticated() || sess.Tokens.IDToken == "" {
		// Pending or partial session: drop it, nothing to log out of upstream.
		if deleteErr := s.sessions.Delete(ctx, input.SessionID); deleteErr != nil {
			s.logger.WarnContext(ctx, "delete session on logout failed", "error", deleteErr)
		}
		return "", domainauth.ErrNoActiveToken
	}

	idToken := sess.Tokens.IDToken
	if deleteErr := s.sessions.Delete(ctx, input.SessionID); deleteErr != nil {
		return "", fmt.Errorf("delete session: %w", deleteErr)
	}

	logoutURL, err := s.provider.LogoutURL(idToken, input.PostLogoutRedirectURL)
	if err != nil {
		return "", fmt.Errorf("build logout redirect: %w", err)
	}
	return logoutURL, nil
}
