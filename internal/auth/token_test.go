package auth

import (
	"testing"
	"time"

	"github.com/customer-care/ticket-api/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("secret", 15)
	user := &domain.User{ID: "user-1", IsAdmin: true}

	raw, meta, err := tm.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if meta.ID == "" || meta.SubjectID != "user-1" || !meta.IsAdmin {
		t.Fatalf("unexpected token metadata %+v", meta)
	}
	if got := meta.ExpiresAt.Sub(meta.IssuedAt); got != 15*time.Minute {
		t.Fatalf("expected 15m lifetime, got %v", got)
	}

	claims, err := tm.ParseToken(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user-1" || !claims.IsAdmin || claims.ID != meta.ID {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseTokenRejects(t *testing.T) {
	tm := NewTokenManager("secret", 15)
	raw, _, err := tm.GenerateToken(&domain.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	expired := NewTokenManager("secret", 15)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, _, err := expired.GenerateToken(&domain.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("generate stale: %v", err)
	}

	cases := map[string]struct {
		manager *TokenManager
		token   string
	}{
		"wrong secret": {manager: NewTokenManager("other", 15), token: raw},
		"expired":      {manager: tm, token: stale},
		"garbage":      {manager: tm, token: "not-a-jwt"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := tc.manager.ParseToken(tc.token); err == nil {
				t.Fatalf("expected parse failure")
			}
		})
	}
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("s3cret!", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := ComparePassword(hash, "s3cret!"); err != nil {
		t.Fatalf("compare matching: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatalf("expected mismatch")
	}
}
