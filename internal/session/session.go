// Package session owns the bearer token and the best-effort local snapshots
// of the user and profile records. It is the single source of truth for
// "is someone logged in".
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/ajorhq/ajor/internal/credential"
	"github.com/ajorhq/ajor/internal/model"
	"github.com/ajorhq/ajor/internal/store"
)

const (
	tokenKey   = "token"
	userKey    = "cached_user"
	profileKey = "cached_profile"
)

// Credentials is the secret storage the token lives in.
type Credentials interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Cache is the local storage for non-secret JSON snapshots.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store manages the session token and cached user/profile snapshots.
// Storage failures never propagate: reads degrade to "absent" and writes
// are logged and dropped, so callers re-derive truth from later reads.
type Store struct {
	creds Credentials
	cache Cache
}

// New creates a session store over the given credential and cache storage.
func New(creds Credentials, cache Cache) *Store {
	return &Store{creds: creds, cache: cache}
}

// Token returns the stored bearer token, or "" when absent or unreadable.
func (s *Store) Token() string {
	tok, err := s.creds.Get(tokenKey)
	if err != nil {
		if !errors.Is(err, credential.ErrNotFound) && !errors.Is(err, store.ErrNotFound) {
			slog.Warn("reading session token", "error", err)
		}
		return ""
	}
	return tok
}

// SaveToken persists the token. An empty token means logout: the token and
// both dependent snapshots are cleared together so no stale identity
// survives a sign-out.
func (s *Store) SaveToken(ctx context.Context, token string) {
	if token == "" {
		s.Clear(ctx)
		return
	}
	if err := s.creds.Set(tokenKey, token); err != nil {
		slog.Warn("saving session token", "error", err)
	}
}

// Clear removes the token and the cached user/profile snapshots.
func (s *Store) Clear(ctx context.Context) {
	if err := s.creds.Delete(tokenKey); err != nil {
		slog.Warn("clearing session token", "error", err)
	}
	for _, key := range []string{userKey, profileKey} {
		if err := s.cache.Delete(ctx, key); err != nil {
			slog.Warn("clearing session cache", "key", key, "error", err)
		}
	}
}

// SaveUser stores a snapshot of the user record; nil clears it.
func (s *Store) SaveUser(ctx context.Context, u *model.User) {
	s.saveSnapshot(ctx, userKey, u)
}

// User returns the cached user snapshot, or nil when absent.
func (s *Store) User(ctx context.Context) *model.User {
	var u model.User
	if !s.loadSnapshot(ctx, userKey, &u) {
		return nil
	}
	return &u
}

// SaveProfile stores a snapshot of the profile record; nil clears it.
func (s *Store) SaveProfile(ctx context.Context, p *model.Profile) {
	s.saveSnapshot(ctx, profileKey, p)
}

// Profile returns the cached profile snapshot, or nil when absent.
func (s *Store) Profile(ctx context.Context) *model.Profile {
	var p model.Profile
	if !s.loadSnapshot(ctx, profileKey, &p) {
		return nil
	}
	return &p
}

func (s *Store) saveSnapshot(ctx context.Context, key string, v any) {
	if isNil(v) {
		if err := s.cache.Delete(ctx, key); err != nil {
			slog.Warn("clearing snapshot", "key", key, "error", err)
		}
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("encoding snapshot", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		slog.Warn("saving snapshot", "key", key, "error", err)
	}
}

func (s *Store) loadSnapshot(ctx context.Context, key string, v any) bool {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Warn("reading snapshot", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		slog.Warn("decoding snapshot", "key", key, "error", err)
		return false
	}
	return true
}

func isNil(v any) bool {
	switch t := v.(type) {
	case *model.User:
		return t == nil
	case *model.Profile:
		return t == nil
	default:
		return v == nil
	}
}
