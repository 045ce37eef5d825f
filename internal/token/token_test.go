package token

import (
	"encoding/base64"
	"errors"
	"testing"
)

// makeToken builds an unsigned token with the given JSON payload.
func makeToken(payload string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return header + "." + body + ".signature"
}

func TestDecodeValidToken(t *testing.T) {
	raw := makeToken(`{"user_id":"abc123","username":"ada","email":"ada@example.com","is_admin":true}`)

	id, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if id.UserID != "abc123" {
		t.Errorf("UserID = %q, want abc123", id.UserID)
	}
	if id.Username != "ada" || id.Email != "ada@example.com" || !id.IsAdmin {
		t.Errorf("unexpected identity: %+v", id)
	}
}

func TestDecodeFallsBackToIDClaim(t *testing.T) {
	raw := makeToken(`{"id":"xyz789","username":"bob"}`)

	id, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if id.UserID != "xyz789" {
		t.Errorf("UserID = %q, want xyz789", id.UserID)
	}
}

func TestDecodeMalformedInput(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"no dots", "nonsense"},
		{"two segments", "aa.bb"},
		{"four segments", "aa.bb.cc.dd"},
		{"invalid base64 payload", "aa.%%%.cc"},
		{"non-JSON payload", makeToken("not json at all")},
		{"missing user id", makeToken(`{"username":"ada"}`)},
		{"empty user id", makeToken(`{"user_id":""}`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := Decode(tc.raw)
			if !errors.Is(err, ErrNoIdentity) {
				t.Fatalf("Decode(%q) err = %v, want ErrNoIdentity", tc.raw, err)
			}
			if id != nil {
				t.Fatalf("Decode(%q) identity = %+v, want nil", tc.raw, id)
			}
		})
	}
}
