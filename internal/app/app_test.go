package app

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/99designs/keyring"

	"github.com/ajorhq/ajor/internal/api"
	"github.com/ajorhq/ajor/internal/credential"
	"github.com/ajorhq/ajor/internal/model"
	"github.com/ajorhq/ajor/internal/notify"
	"github.com/ajorhq/ajor/internal/session"
	"github.com/ajorhq/ajor/tests/testutil"
)

func makeToken(payload string) string {
	enc := func(s string) string {
		return base64.RawURLEncoding.EncodeToString([]byte(s))
	}
	return enc(`{"alg":"HS256","typ":"JWT"}`) + "." + enc(payload) + "." + enc("sig")
}

func newTestModel(t *testing.T, storedToken string) (Model, *session.Store) {
	t.Helper()

	ring := credential.NewFromKeyring(keyring.NewArrayKeyring(nil))
	cache := testutil.NewTestStore(t)
	sess := session.New(ring, cache)
	if storedToken != "" {
		sess.SaveToken(t.Context(), storedToken)
	}

	cfg := &model.AppConfig{
		Backend: model.BackendConfig{
			BaseURL:         "http://127.0.0.1:1",
			PollIntervalSec: 10,
		},
	}
	client := api.NewClient(cfg.Backend.BaseURL, sess, 0)
	return New(cfg, client, sess, cache), sess
}

func TestStartsOnLoginWithoutSession(t *testing.T) {
	m, _ := newTestModel(t, "")

	if m.loggedIn {
		t.Fatal("model logged in with no stored token")
	}
	if !strings.Contains(m.View(), "Sign in") {
		t.Errorf("View() should show the login screen, got %q", m.View())
	}
}

func TestStartsLoggedInWithStoredToken(t *testing.T) {
	tok := makeToken(`{"user_id":"u1","username":"ada","email":"ada@example.com"}`)
	m, _ := newTestModel(t, tok)

	if !m.loggedIn {
		t.Fatal("model not logged in despite a decodable stored token")
	}
	if m.identity == nil || m.identity.UserID != "u1" {
		t.Errorf("identity = %+v, want user u1", m.identity)
	}
	if m.engine == nil {
		t.Error("no notification engine for the session")
	}
}

func TestUndecodableTokenForcesLogin(t *testing.T) {
	m, sess := newTestModel(t, "not-a-jwt")

	if m.loggedIn {
		t.Fatal("model logged in with an undecodable token")
	}
	// The gate also discards the unusable token.
	if got := sess.Token(); got != "" {
		t.Errorf("stored token = %q, want cleared", got)
	}
}

func TestAuthFailureDuringSyncEndsSession(t *testing.T) {
	tok := makeToken(`{"user_id":"u1"}`)
	m, sess := newTestModel(t, tok)

	next, _ := m.Update(notify.RefreshedMsg{Err: &api.Error{StatusCode: 401}})
	got := next.(Model)

	if got.loggedIn {
		t.Fatal("session still active after a 401 refresh")
	}
	if sess.Token() != "" {
		t.Error("token survived session teardown")
	}
}

func TestUnreadBadgeFollowsRefresh(t *testing.T) {
	tok := makeToken(`{"user_id":"u1"}`)
	m, _ := newTestModel(t, tok)

	next, _ := m.Update(notify.RefreshedMsg{
		Notifications: []model.Notification{
			{ID: "n1", Read: false},
			{ID: "n2", Read: true},
		},
		UnreadCount: 1,
	})
	got := next.(Model)

	if got.unread != 1 {
		t.Errorf("unread = %d, want 1", got.unread)
	}
}
