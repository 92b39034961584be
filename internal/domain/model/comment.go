package model

import (
	"errors"
	"strings"
	"time"
)

// Comment is a reply on a post.
type Comment struct {
	ID        int64     `db:"id"         json:"id"`
	PostID    int64     `db:"post_id"    json:"post_id"`
	Content   string    `db:"content"    json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateCommentRequest carries the fields needed to create a comment.
type CreateCommentRequest struct {
	PostID  int64  `json:"-"`
	Content string `json:"content"`
}

// Validate checks required fields.
func (r *CreateCommentRequest) Validate() error {
	if r.PostID <= 0 {
		return errors.New("post id is required")
	}
	if strings.TrimSpace(r.Content) == "" {
		return errors.New("content is required")
	}
	return nil
}
