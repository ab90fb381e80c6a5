package utils

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("u1", "alice", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "u1" || claims.Username != "alice" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken("u1", "alice", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	if _, err := ParseToken("not.a.token"); err == nil {
		t.Fatal("expected parse failure")
	}
}
