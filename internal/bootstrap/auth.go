package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/reddyt-app/reddyt/config"
	"github.com/reddyt-app/reddyt/internal/adapters/devauth"
	"github.com/reddyt-app/reddyt/internal/adapters/oidc"
	redisadapter "github.com/reddyt-app/reddyt/internal/adapters/redis"
	"github.com/reddyt-app/reddyt/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Users       service.UserEnsurer
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// A misconfigured or unreachable identity provider is a startup failure; the
// application does not run with authentication disabled.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.RedisClient == nil {
		return nil, errors.New("auth service requires a redis client")
	}

	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:")

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		return buildDevAuthService(cfg, sessionStore)
	case config.AuthModeOAuth:
		return buildOAuthService(cfg, sessionStore)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}
}

func buildDevAuthService(cfg AuthConfig, sessionStore *redisadapter.SessionStore) (*service.AuthService, error) {
	prov, err := devauth.NewProvider(devauth.Config{
		Subject:         cfg.Auth.DevAuth.Subject,
		Email:           cfg.Auth.DevAuth.Email,
		GivenName:       cfg.Auth.DevAuth.GivenName,
		FamilyName:      cfg.Auth.DevAuth.FamilyName,
		SessionDuration: cfg.Auth.DevAuth.SessionDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("create dev auth provider: %w", err)
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("mock authentication enabled; do not use in production",
			"subject", cfg.Auth.DevAuth.Subject)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: prov,
		Sessions: sessionStore,
		Users:    cfg.Users,
		Logger:   cfg.Logger,
	}), nil
}

func buildOAuthService(cfg AuthConfig, sessionStore *redisadapter.SessionStore) (*service.AuthService, error) {
	oauth := cfg.Auth.OAuth
	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
		LogoutURL:    oauth.LogoutURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create OIDC provider: %w", err)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: prov,
		Sessions: sessionStore,
		Users:    cfg.Users,
		Logger:   cfg.Logger,
	}), nil
}
