package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/reddyt-app/reddyt/internal/domain/model"
	apperrors "github.com/reddyt-app/reddyt/internal/errors"
	"github.com/reddyt-app/reddyt/internal/testutil"
)

func seedUser(t *testing.T, db *sql.DB, username string) {
	t.Helper()
	_, err := NewUserRepo(db).CreateIfAbsent(context.Background(), &model.User{
		Username: username,
		Email:    username + "@example.com",
	})
	require.NoError(t, err)
}

func TestPostRepo_CreateAndGet(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewPostRepo(db)
		ctx := context.Background()
		seedUser(t, db, "sub-1")

		created, err := repo.Create(ctx, &model.CreatePostRequest{
			Title:   "hello",
			Content: "first post",
			Author:  "sub-1",
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "hello", got.Title)
		assert.Equal(t, "sub-1", got.Author)
	})
}

func TestPostRepo_Create_UnknownAuthor(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewPostRepo(db)

		_, err := repo.Create(context.Background(), &model.CreatePostRequest{
			Title:   "orphan",
			Content: "no such user",
			Author:  "ghost",
		})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeForeignKey))
	})
}

func TestPostRepo_Create_Validation(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewPostRepo(db)
		ctx := context.Background()

		_, err := repo.Create(ctx, nil)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))

		_, err = repo.Create(ctx, &model.CreatePostRequest{Content: "no title", Author: "sub-1"})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
	})
}

func TestPostRepo_GetByID_NotFound(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		_, err := NewPostRepo(db).GetByID(context.Background(), 999999)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestPostRepo_List_NewestFirst(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewPostRepo(db)
		ctx := context.Background()
		seedUser(t, db, "sub-1")

		for _, title := range []string{"first", "second", "third"} {
			_, err := repo.Create(ctx, &model.CreatePostRequest{
				Title:   title,
				Content: "body",
				Author:  "sub-1",
			})
			require.NoError(t, err)
		}

		posts, err := repo.List(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, "third", posts[0].Title)
		assert.Equal(t, "first", posts[2].Title)

		page, err := repo.List(ctx, 2, 2)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "first", page[0].Title)
	})
}

func TestPostRepo_List_Empty(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		posts, err := NewPostRepo(db).List(context.Background(), 10, 0)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}
