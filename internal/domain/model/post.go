package model

import (
	"errors"
	"strings"
	"time"
)

// Post is a forum post. Author references users.username (a provider
// subject id) and is taken from the session, never from request input.
type Post struct {
	ID        int64     `db:"id"         json:"id"`
	Title     string    `db:"title"      json:"title"`
	Content   string    `db:"content"    json:"content"`
	Author    string    `db:"author"     json:"author"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreatePostRequest carries the fields needed to create a post.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"-"`
}

// Validate checks required fields and size limits.
func (r *CreatePostRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if len(r.Title) > 300 {
		return errors.New("title must be at most 300 characters")
	}
	if strings.TrimSpace(r.Content) == "" {
		return errors.New("content is required")
	}
	if r.Author == "" {
		return errors.New("author is required")
	}
	return nil
}
