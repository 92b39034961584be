package data

// Package data provides PostgreSQL-backed repositories for the forum.

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/reddyt-app/reddyt/internal/errors"

	"github.com/jackc/pgx/v5"
	"github.com/reddyt-app/reddyt/internal/data/pgxutil"
	"github.com/reddyt-app/reddyt/internal/domain/model"
)

// UserRepo provides database operations for local users.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// CreateIfAbsent inserts the user unless the username already exists and
// returns the stored row. ON CONFLICT DO NOTHING makes concurrent first
// logins for the same subject safe: the losing writer falls through to the
// follow-up select and gets the winner's row.
func (r *UserRepo) CreateIfAbsent(ctx context.Context, user *model.User) (*model.User, error) {
	if user == nil {
		return nil, apperrors.Validation("user is required")
	}
	if err := user.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out model.User
	inserted := true
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (username, email, first_name, last_name)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (username) DO NOTHING
			RETURNING username, email, first_name, last_name
		`, user.Username, user.Email, user.FirstName, user.LastName)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		if errors.Is(err, pgx.ErrNoRows) {
			inserted = false
			return nil
		}
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}

	if !inserted {
		return r.GetByUsername(ctx, user.Username)
	}
	return &out, nil
}

// GetByUsername retrieves a user by provider subject id.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT username, email, first_name, last_name
			FROM users
			WHERE username = $1
		`, username)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}
