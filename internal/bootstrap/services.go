package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/reddyt-app/reddyt/config"
	"github.com/reddyt-app/reddyt/internal/data"
	"github.com/reddyt-app/reddyt/internal/observability/metrics"
	"github.com/reddyt-app/reddyt/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth    *service.AuthService
	Users   *service.UserService
	Posts   *service.PostService
	Metrics *metrics.HTTP
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires repositories and services from shared infrastructure.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userRepo := data.NewUserRepo(deps.DB)
	postRepo := data.NewPostRepo(deps.DB)
	commentRepo := data.NewCommentRepo(deps.DB)

	users := service.NewUserService(service.UserServiceOptions{
		Repo:   userRepo,
		Logger: logger,
	})
	posts := service.NewPostService(service.PostServiceOptions{
		Posts:    postRepo,
		Comments: commentRepo,
		Logger:   logger,
	})

	auth, err := BuildAuthService(AuthConfig{
		Auth:        deps.Config.Auth,
		RedisClient: deps.RedisClient,
		Users:       users,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	return ServiceContainer{
		Auth:    auth,
		Users:   users,
		Posts:   posts,
		Metrics: metrics.NewHTTP(),
	}, nil
}
