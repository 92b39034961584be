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

func seedPost(t *testing.T, db *sql.DB, author, title string) *model.Post {
	t.Helper()
	post, err := NewPostRepo(db).Create(context.Background(), &model.CreatePostRequest{
		Title:   title,
		Content: "body",
		Author:  author,
	})
	require.NoError(t, err)
	return post
}

func TestCommentRepo_CreateAndList(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewCommentRepo(db)
		ctx := context.Background()
		seedUser(t, db, "sub-1")
		post := seedPost(t, db, "sub-1", "thread")

		for _, content := range []string{"first", "second"} {
			created, err := repo.Create(ctx, &model.CreateCommentRequest{
				PostID:  post.ID,
				Content: content,
			})
			require.NoError(t, err)
			assert.NotZero(t, created.ID)
			assert.Equal(t, post.ID, created.PostID)
		}

		comments, err := repo.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "first", comments[0].Content)
		assert.Equal(t, "second", comments[1].Content)
	})
}

func TestCommentRepo_Create_MissingPost(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		_, err := NewCommentRepo(db).Create(context.Background(), &model.CreateCommentRequest{
			PostID:  999999,
			Content: "orphan",
		})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeForeignKey))
	})
}

func TestCommentRepo_Create_Validation(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewCommentRepo(db)
		ctx := context.Background()

		_, err := repo.Create(ctx, nil)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))

		_, err = repo.Create(ctx, &model.CreateCommentRequest{PostID: 1, Content: "  "})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
	})
}

func TestCommentRepo_ListByPost_Empty(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		comments, err := NewCommentRepo(db).ListByPost(context.Background(), 12345)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})
}

func TestCommentRepo_DeleteCascades(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewCommentRepo(db)
		ctx := context.Background()
		seedUser(t, db, "sub-1")
		post := seedPost(t, db, "sub-1", "doomed")

		_, err := repo.Create(ctx, &model.CreateCommentRequest{PostID: post.ID, Content: "gone soon"})
		require.NoError(t, err)

		_, err = db.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", post.ID)
		require.NoError(t, err)

		comments, err := repo.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})
}
