package store

import (
	"context"
	"errors"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})
	return s
}

func TestCacheRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}

	if err := s.Set(ctx, "cached_user", []byte(`{"id":"u1"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, "cached_user")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"id":"u1"}` {
		t.Errorf("Get = %s", got)
	}

	// Overwrite replaces.
	if err := s.Set(ctx, "cached_user", []byte(`{"id":"u2"}`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, _ = s.Get(ctx, "cached_user")
	if string(got) != `{"id":"u2"}` {
		t.Errorf("Get after overwrite = %s", got)
	}

	if err := s.Delete(ctx, "cached_user"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "cached_user"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err = %v, want ErrNotFound", err)
	}

	// Deleting a missing key is fine.
	if err := s.Delete(ctx, "cached_user"); err != nil {
		t.Errorf("Delete(missing): %v", err)
	}
}

func TestMarkSeenReportsFreshIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	fresh, err := s.MarkSeen(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	if len(fresh) != 2 {
		t.Fatalf("fresh = %v, want both ids", fresh)
	}

	fresh, err = s.MarkSeen(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	if len(fresh) != 1 || fresh[0] != "c" {
		t.Fatalf("fresh = %v, want [c]", fresh)
	}

	fresh, err = s.MarkSeen(ctx, nil)
	if err != nil || fresh != nil {
		t.Fatalf("MarkSeen(nil) = %v, %v, want nil, nil", fresh, err)
	}
}
