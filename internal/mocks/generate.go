// Package mocks provides mock implementations for testing reddyt.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockUserRepository(ctrl)
//	mockRepo.EXPECT().CreateIfAbsent(gomock.Any(), gomock.Any()).Return(user, nil)
package mocks

// Generate mock for UserRepository interface from internal/ports package.
// This creates MockUserRepository with methods for all UserRepository interface methods:
// CreateIfAbsent, GetByUsername
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=user_repository_mock.go github.com/reddyt-app/reddyt/internal/ports UserRepository

// Generate mock for PostRepository interface from internal/ports package.
// This creates MockPostRepository with methods for all PostRepository interface methods:
// Create, GetByID, List
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=post_repository_mock.go github.com/reddyt-app/reddyt/internal/ports PostRepository

// Generate mock for CommentRepository interface from internal/ports package.
// This creates MockCommentRepository with methods for all CommentRepository interface methods:
// Create, ListByPost
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=comment_repository_mock.go github.com/reddyt-app/reddyt/internal/ports CommentRepository
