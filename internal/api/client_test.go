package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, StaticToken(token), 5*time.Second)
}

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, "tok-123", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	})

	if _, err := c.Notifications(context.Background()); err != nil {
		t.Fatalf("Notifications: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-123")
	}
}

func TestNoHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"token":"fresh"}`))
	})

	tok, err := c.Login(context.Background(), "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok != "fresh" {
		t.Errorf("token = %q, want fresh", tok)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want unset", gotAuth)
	}
}

func TestUnauthorizedDetected(t *testing.T) {
	c := newTestClient(t, "expired", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Unauthorized"}`))
	})

	_, err := c.Notifications(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsAuth(err) {
		t.Errorf("IsAuth(%v) = false, want true", err)
	}
	if IsStatus(err, http.StatusNotFound) {
		t.Errorf("IsStatus(404) unexpectedly true for %v", err)
	}
}

func TestRateLimitRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("[]"))
	})

	if _, err := c.Notifications(context.Background()); err != nil {
		t.Fatalf("Notifications after retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestMarkReadRequestShape(t *testing.T) {
	var gotMethod, gotPath, gotQuery string
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("id")
		w.WriteHeader(http.StatusOK)
	})

	if err := c.MarkNotificationRead(context.Background(), "n1"); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotPath != "/notifications/mark-read" {
		t.Errorf("path = %s, want /notifications/mark-read", gotPath)
	}
	if gotQuery != "n1" {
		t.Errorf("id = %q, want n1", gotQuery)
	}
}

func TestErrorEnvelopeParsed(t *testing.T) {
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Invalid ID"}`))
	})

	err := c.MarkNotificationRead(context.Background(), "bogus")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsStatus(err, http.StatusBadRequest) {
		t.Errorf("IsStatus(400) = false for %v", err)
	}
}

func TestWebSocketURL(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"http://localhost:8080", "ws://localhost:8080/ws"},
		{"https://api.ajor.example", "wss://api.ajor.example/ws"},
		{"https://api.ajor.example/", "wss://api.ajor.example/ws"},
	}
	for _, tc := range cases {
		c := NewClient(tc.base, StaticToken(""), time.Second)
		if got := c.WebSocketURL(); got != tc.want {
			t.Errorf("WebSocketURL(%s) = %s, want %s", tc.base, got, tc.want)
		}
	}
}
