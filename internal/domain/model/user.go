package model

// Package model contains persistence-facing domain records for the forum.

import (
	"errors"
	"strings"
)

// User is the local record for an identity-provider subject.
// Username is the provider subject id and acts as the primary key; it is
// never generated locally. A row is created on first login and left
// unchanged on subsequent logins.
type User struct {
	Username  string `db:"username"  json:"username"`
	Email     string `db:"email"     json:"email"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name"  json:"last_name"`
}

// Validate checks required fields before persistence.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return errors.New("username is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return errors.New("email is required")
	}
	return nil
}
