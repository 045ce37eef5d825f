// Package token extracts identity claims from a bearer token without
// contacting the backend.
//
// The payload is decoded without signature verification, so the result is
// suitable only for display and request routing (e.g. "whose groups do I
// fetch"). It must never gate a privileged operation; authorization is
// entirely the backend's job.
package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoIdentity is returned when the token is malformed or carries no
// usable user identifier.
var ErrNoIdentity = errors.New("token carries no identity")

// Identity is the set of display claims carried in the token payload.
type Identity struct {
	UserID   string
	Username string
	Email    string
	IsAdmin  bool
}

type claims struct {
	UserID   string `json:"user_id"`
	AltID    string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Decode parses the token payload and returns the identity it carries.
// Any malformed input (wrong segment count, bad base64, bad JSON) and any
// payload without a user id yield ErrNoIdentity; Decode never panics.
// What to do with a missing identity is the caller's decision: the app
// gate forces re-authentication, passive consumers treat it as "no
// session".
func Decode(raw string) (*Identity, error) {
	if raw == "" {
		return nil, ErrNoIdentity
	}

	var c claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &c); err != nil {
		return nil, ErrNoIdentity
	}

	id := c.UserID
	if id == "" {
		id = c.AltID
	}
	if id == "" {
		return nil, ErrNoIdentity
	}

	return &Identity{
		UserID:   id,
		Username: c.Username,
		Email:    c.Email,
		IsAdmin:  c.IsAdmin,
	}, nil
}
