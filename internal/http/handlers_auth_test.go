package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/reddyt-app/reddyt/internal/domain/auth"
	"github.com/reddyt-app/reddyt/internal/service"
)

// stubAuthService implements AuthServiceInterface with function fields.
type stubAuthService struct {
	beginFn    func(ctx context.Context) (*service.BeginLoginResult, error)
	completeFn func(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	getFn      func(ctx context.Context, sessionID string) (*domainauth.Session, error)
	logoutFn   func(ctx context.Context, input service.LogoutInput) (string, error)
}

func (s *stubAuthService) BeginLogin(ctx context.Context) (*service.BeginLoginResult, error) {
	return s.beginFn(ctx)
}

func (s *stubAuthService) CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
	return s.completeFn(ctx, input)
}

func (s *stubAuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	return s.getFn(ctx, sessionID)
}

func (s *stubAuthService) Logout(ctx context.Context, input service.LogoutInput) (string, error) {
	return s.logoutFn(ctx, input)
}

func findCookie(t *testing.T, res *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandlers_Login_RedirectsToProvider(t *testing.T) {
	pending := domainauth.Session{
		ID:        "sess-1",
		State:     "state-1",
		Nonce:     "nonce-1",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	svc := &stubAuthService{
		beginFn: func(_ context.Context) (*service.BeginLoginResult, error) {
			return &service.BeginLoginResult{
				AuthURL: "https://idp.example.com/auth?state=state-1&nonce=nonce-1",
				Session: pending,
			}, nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusFound, res.StatusCode)
	location := res.Header.Get("Location")
	assert.Contains(t, location, "https://idp.example.com/auth")
	assert.Contains(t, location, "nonce=nonce-1")

	cookie := findCookie(t, res, "session_id")
	require.NotNil(t, cookie)
	assert.Equal(t, "sess-1", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Positive(t, cookie.MaxAge)
}

func TestAuthHandlers_Login_ServiceError(t *testing.T) {
	svc := &stubAuthService{
		beginFn: func(_ context.Context) (*service.BeginLoginResult, error) {
			return nil, errors.New("redis down")
		},
	}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthHandlers_Callback_Success(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	var gotInput service.CompleteLoginInput
	svc := &stubAuthService{
		completeFn: func(_ context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
			gotInput = input
			return &service.CompleteLoginResult{
				Session: domainauth.Session{
					ID:        input.SessionID,
					Identity:  &domainauth.Identity{Subject: "sub-1"},
					Tokens:    &domainauth.TokenSet{IDToken: "idt", Expiry: expiry},
					ExpiresAt: expiry,
				},
			}, nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=the-code&state=state-1", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	assert.Equal(t, service.CompleteLoginInput{
		SessionID: "sess-1",
		Code:      "the-code",
		State:     "state-1",
	}, gotInput)

	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "/", res.Header.Get("Location"))

	// Cookie lifetime follows the authenticated session now.
	cookie := findCookie(t, res, "session_id")
	require.NotNil(t, cookie)
	assert.Greater(t, cookie.MaxAge, 3000)
}

func TestAuthHandlers_Callback_ValidationFailure(t *testing.T) {
	svc := &stubAuthService{
		completeFn: func(_ context.Context, _ service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
			return nil, &domainauth.TokenValidationError{Reason: "nonce mismatch"}
		},
	}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c&state=s", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "Authentication failed: nonce mismatch")
}

func TestAuthHandlers_Callback_ProviderFailure(t *testing.T) {
	svc := &stubAuthService{
		completeFn: func(_ context.Context, _ service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
			return nil, &domainauth.ProviderError{
				Code:        "invalid_grant",
				Description: "Code not valid",
			}
		},
	}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c&state=s", nil)
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authentication failed: Code not valid")
}

func TestAuthHandlers_Logout_RedirectsToProvider(t *testing.T) {
	var gotInput service.LogoutInput
	svc := &stubAuthService{
		logoutFn: func(_ context.Context, input service.LogoutInput) (string, error) {
			gotInput = input
			return "https://idp.example.com/logout?id_token_hint=idt", nil
		},
	}
	h := &AuthHandlers{Svc: svc, PublicURL: "http://localhost:8080"}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	assert.Equal(t, "sess-1", gotInput.SessionID)
	assert.Equal(t, "http://localhost:8080/auth/login", gotInput.PostLogoutRedirectURL)

	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "https://idp.example.com/logout?id_token_hint=idt", res.Header.Get("Location"))

	cookie := findCookie(t, res, "session_id")
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestAuthHandlers_Logout_NoActiveToken(t *testing.T) {
	svc := &stubAuthService{
		logoutFn: func(_ context.Context, _ service.LogoutInput) (string, error) {
			return "", domainauth.ErrNoActiveToken
		},
	}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "/auth/login", res.Header.Get("Location"))

	cookie := findCookie(t, res, "session_id")
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestAuthHandlers_Status(t *testing.T) {
	authenticated := &domainauth.Session{
		ID:        "sess-1",
		Identity:  &domainauth.Identity{Subject: "sub-1", Email: "ada@example.com"},
		Tokens:    &domainauth.TokenSet{IDToken: "idt"},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	svc := &stubAuthService{
		getFn: func(_ context.Context, sessionID string) (*domainauth.Session, error) {
			if sessionID == "sess-1" {
				return authenticated, nil
			}
			return nil, errors.New("not found")
		},
	}
	h := &AuthHandlers{Svc: svc}

	// No cookie
	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	rec := httptest.NewRecorder()
	h.Status(rec, req)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)

	// Valid session
	req = httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	rec = httptest.NewRecorder()
	h.Status(rec, req)
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)
	assert.Contains(t, rec.Body.String(), "sub-1")

	// Unknown session clears the cookie
	req = httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "stale"})
	rec = httptest.NewRecorder()
	h.Status(rec, req)

	res := rec.Result()
	defer res.Body.Close()
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)
	cookie := findCookie(t, res, "session_id")
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestAuthHandlers_SecureCookieBehindProxy(t *testing.T) {
	pending := domainauth.Session{ID: "sess-1", ExpiresAt: time.Now().Add(10 * time.Minute)}
	svc := &stubAuthService{
		beginFn: func(_ context.Context) (*service.BeginLoginResult, error) {
			return &service.BeginLoginResult{AuthURL: "https://idp/auth", Session: pending}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	req.Header.Set("X-Forwarded-Proto", "https")

	// Proxy headers are ignored unless TrustProxy is on.
	h := &AuthHandlers{Svc: svc}
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	res := rec.Result()
	res.Body.Close()
	assert.False(t, findCookie(t, res, "session_id").Secure)

	h = &AuthHandlers{Svc: svc, TrustProxy: true}
	rec = httptest.NewRecorder()
	h.Login(rec, req)
	res = rec.Result()
	res.Body.Close()
	assert.True(t, findCookie(t, res, "session_id").Secure)
}
