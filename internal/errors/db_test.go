package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBError_Nil(t *testing.T) {
	assert.NoError(t, MapDBError(nil))
}

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(fmt.Errorf("scan: %w", pgx.ErrNoRows))

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrCodeNotFound, appErr.Code)
	assert.True(t, IsNotFound(err))
}

func TestMapDBError_ContextErrors(t *testing.T) {
	err := MapDBError(context.DeadlineExceeded)
	assert.True(t, IsCode(err, ErrCodeTimeout))

	err = MapDBError(context.Canceled)
	assert.True(t, IsCode(err, ErrCodeCanceled))
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:   pgerrcode.UniqueViolation,
		Detail: "Key (username)=(sub-1) already exists.",
	}

	err := MapDBError(pgErr)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrCodeConflict, appErr.Code)
	assert.Equal(t, "username", appErr.Field)
	assert.True(t, IsConflict(err))
}

func TestMapDBError_ForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           pgerrcode.ForeignKeyViolation,
		ConstraintName: "comments_post_id_fkey",
	}

	err := MapDBError(pgErr)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrCodeForeignKey, appErr.Code)
}

func TestMapDBError_NotNullViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       pgerrcode.NotNullViolation,
		ColumnName: "title",
	}

	err := MapDBError(pgErr)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrCodeValidation, appErr.Code)
	assert.Equal(t, "title", appErr.Field)
}

func TestMapDBError_UnknownPgError(t *testing.T) {
	err := MapDBError(&pgconn.PgError{Code: pgerrcode.SerializationFailure})
	assert.True(t, IsCode(err, ErrCodeInternal))
}

func TestMapDBError_Passthrough(t *testing.T) {
	cause := errors.New("connection refused")
	assert.Equal(t, cause, MapDBError(cause))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Internal("wrapped", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "wrapped: boom", err.Error())
}

func TestNotFoundf(t *testing.T) {
	err := NotFoundf("post %d not found", 7)

	assert.Equal(t, "post 7 not found", err.Message)
	assert.True(t, IsNotFound(err))
}
