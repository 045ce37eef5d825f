package session

import (
	"context"
	"errors"
	"testing"

	"github.com/99designs/keyring"

	"github.com/ajorhq/ajor/internal/credential"
	"github.com/ajorhq/ajor/internal/model"
	"github.com/ajorhq/ajor/internal/store"
)

// memCache is an in-memory Cache used in place of the sqlite store.
type memCache struct {
	values map[string][]byte
	fail   bool
}

func newMemCache() *memCache {
	return &memCache{values: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.fail {
		return nil, errors.New("cache unavailable")
	}
	v, ok := c.values[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte) error {
	if c.fail {
		return errors.New("cache unavailable")
	}
	c.values[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	if c.fail {
		return errors.New("cache unavailable")
	}
	delete(c.values, key)
	return nil
}

// failingCreds simulates an unavailable keyring.
type failingCreds struct{}

func (failingCreds) Get(string) (string, error) { return "", errors.New("keyring locked") }
func (failingCreds) Set(string, string) error   { return errors.New("keyring locked") }
func (failingCreds) Delete(string) error        { return errors.New("keyring locked") }

func newTestStore(t *testing.T) (*Store, *memCache) {
	t.Helper()
	ring := credential.NewFromKeyring(keyring.NewArrayKeyring(nil))
	cache := newMemCache()
	return New(ring, cache), cache
}

func TestTokenRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if got := s.Token(); got != "" {
		t.Fatalf("Token() before any save = %q, want empty", got)
	}

	s.SaveToken(ctx, "abc.def.ghi")
	if got := s.Token(); got != "abc.def.ghi" {
		t.Fatalf("Token() = %q, want %q", got, "abc.def.ghi")
	}

	s.SaveToken(ctx, "second")
	if got := s.Token(); got != "second" {
		t.Fatalf("Token() after overwrite = %q, want %q", got, "second")
	}

	s.SaveToken(ctx, "")
	if got := s.Token(); got != "" {
		t.Fatalf("Token() after logout = %q, want empty", got)
	}
}

func TestLogoutClearsSnapshots(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.SaveToken(ctx, "tok")
	s.SaveUser(ctx, &model.User{ID: "u1", Username: "ada"})
	s.SaveProfile(ctx, &model.Profile{UserID: "u1", Bio: "hello"})

	s.SaveToken(ctx, "")

	if s.Token() != "" {
		t.Error("token survived logout")
	}
	if s.User(ctx) != nil {
		t.Error("cached user survived logout")
	}
	if s.Profile(ctx) != nil {
		t.Error("cached profile survived logout")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if s.User(ctx) != nil {
		t.Fatal("User() before save should be nil")
	}

	s.SaveUser(ctx, &model.User{ID: "u1", Username: "ada", Email: "ada@example.com"})
	u := s.User(ctx)
	if u == nil {
		t.Fatal("User() after save is nil")
	}
	if u.Username != "ada" || u.Email != "ada@example.com" {
		t.Errorf("User() = %+v, want ada/ada@example.com", u)
	}

	s.SaveUser(ctx, nil)
	if s.User(ctx) != nil {
		t.Error("User() after nil save should be nil")
	}
}

func TestStorageFailuresDegradeToAbsent(t *testing.T) {
	cache := newMemCache()
	cache.fail = true
	s := New(failingCreds{}, cache)
	ctx := context.Background()

	// None of these may panic or return errors to the caller.
	s.SaveToken(ctx, "tok")
	if got := s.Token(); got != "" {
		t.Fatalf("Token() on failing storage = %q, want empty", got)
	}

	s.SaveUser(ctx, &model.User{ID: "u1"})
	if s.User(ctx) != nil {
		t.Error("User() on failing storage should be nil")
	}

	s.SaveToken(ctx, "")
}

func TestCorruptSnapshotIgnored(t *testing.T) {
	s, cache := newTestStore(t)
	ctx := context.Background()

	cache.values["cached_user"] = []byte("{not json")
	if s.User(ctx) != nil {
		t.Error("corrupt snapshot should read as absent")
	}
}
