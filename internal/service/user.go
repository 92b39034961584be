package service

import (
	"context"
	"fmt"
	"log/slog"

	domainauth "github.com/reddyt-app/reddyt/internal/domain/auth"
	"github.com/reddyt-app/reddyt/internal/domain/model"
	"github.com/reddyt-app/reddyt/internal/ports"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Repo   ports.UserRepository
	Logger *slog.Logger
}

// UserService maintains local user records seeded from identity-provider
// claims. The upsert is create-only: an existing row is returned unchanged
// even when the provider-side profile has moved on.
type UserService struct {
	repo   ports.UserRepository
	logger *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{repo: opts.Repo, logger: logger}
}

// EnsureUser guarantees a local user row exists for the identity's subject.
// Idempotent: repeated logins by the same subject return the same row.
func (s *UserService) EnsureUser(ctx context.Context, identity domainauth.Identity) (*model.User, error) {
	user := &model.User{
		Username:  identity.Subject,
		Email:     identity.Email,
		FirstName: identity.GivenName,
		LastName:  identity.FamilyName,
	}
	out, err := s.repo.CreateIfAbsent(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("ensure user %q: %w", identity.Subject, err)
	}
	return out, nil
}

// GetUser returns the local user for a subject id.
func (s *UserService) GetUser(ctx context.Context, username string) (*model.User, error) {
	return s.repo.GetByUsername(ctx, username)
}
