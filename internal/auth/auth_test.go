package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndVerifyToken(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	userID := uuid.New()

	raw, err := tokens.IssueToken(userID)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	got, err := tokens.VerifyToken(raw)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if got != userID {
		t.Errorf("round trip: got %s, want %s", got, userID)
	}
}

func TestVerifyToken_RejectsGarbage(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	for _, raw := range []string{"", "not.a.jwt", "a.b"} {
		if _, err := tokens.VerifyToken(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("VerifyToken(%q): expected ErrInvalidToken, got %v", raw, err)
		}
	}
}

func TestVerifyToken_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokens("secret-a", time.Hour)
	verifier := NewTokens("secret-b", time.Hour)

	raw, err := issuer.IssueToken(uuid.New())
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := verifier.VerifyToken(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyToken_RejectsExpired(t *testing.T) {
	tokens := &Tokens{secret: []byte("test-secret"), ttl: -time.Minute}

	raw, err := tokens.IssueToken(uuid.New())
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := tokens.VerifyToken(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestNewTokens_DefaultTTL(t *testing.T) {
	tokens := NewTokens("s", 0)
	if tokens.ttl != 72*time.Hour {
		t.Errorf("default ttl: got %v", tokens.ttl)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword("correct horse battery staple", hash) {
		t.Error("correct password should verify")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("wrong password should not verify")
	}
}
