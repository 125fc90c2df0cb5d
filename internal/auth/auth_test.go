package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPasswordRoundTrip(t *testing.T) {
	t.Parallel()
	hash, err := HashPassword("bismillah")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "bismillah" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "bismillah") {
		t.Fatalf("expected password to match its hash")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("expected wrong password to be rejected")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()
	now := time.Now()
	token, err := GenerateJWT(42, "secret", now)
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	claims, err := ParseToken(token, "secret")
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user 42, got %d", claims.UserID)
	}
	if claims.ID == "" {
		t.Fatalf("expected a jti claim")
	}
	if want := now.Add(TokenLifetime).Unix(); claims.ExpiresAt.Unix() != want {
		t.Fatalf("expected expiry %d, got %d", want, claims.ExpiresAt.Unix())
	}

	other, _ := GenerateJWT(42, "secret", now)
	otherClaims, err := ParseToken(other, "secret")
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if otherClaims.ID == claims.ID {
		t.Fatalf("each token should carry its own jti")
	}
}

func TestParseTokenRejects(t *testing.T) {
	t.Parallel()
	valid, _ := GenerateJWT(7, "secret", time.Now())
	expired, _ := GenerateJWT(7, "secret", time.Now().Add(-TokenLifetime-time.Hour))

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other"},
		{"expired", expired, "secret"},
		{"garbage", "not.a.token", "secret"},
		{"empty", "", "secret"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseToken(tc.token, tc.secret); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestMemoryRevoker(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewMemoryRevoker()
	r.now = func() time.Time { return now }

	if revoked, _ := r.Revoked(ctx, "abc"); revoked {
		t.Fatalf("unknown id should not be revoked")
	}
	if err := r.Revoke(ctx, "abc", time.Hour); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if revoked, _ := r.Revoked(ctx, "abc"); !revoked {
		t.Fatalf("expected id to be revoked")
	}

	now = now.Add(2 * time.Hour)
	if revoked, _ := r.Revoked(ctx, "abc"); revoked {
		t.Fatalf("revocation should lapse once the token would have expired")
	}

	if err := r.Revoke(ctx, "already-expired", 0); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if _, ok := r.revoked["abc"]; ok {
		t.Fatalf("expired entries should be pruned on the next revoke")
	}
}

func TestRedisRevokerUnreachable(t *testing.T) {
	t.Parallel()
	r := NewRedisRevoker("127.0.0.1:1", "", "")
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := r.Revoked(ctx, "abc"); err == nil {
		t.Fatalf("expected an error from an unreachable redis")
	}
}
