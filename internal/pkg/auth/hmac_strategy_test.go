package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/domain/model"
)

func testActor() model.Actor {
	return model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: model.RoleCourier}
}

func TestHMACStrategyRoundTrip(t *testing.T) {
	s := NewHMACStrategy("secret", Options{})
	actor := testActor()

	token, err := s.IssueToken(actor)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	parsed, err := s.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if parsed != actor {
		t.Fatalf("claims mismatch: got %+v want %+v", parsed, actor)
	}
}

func TestHMACStrategyRejectsTamperedToken(t *testing.T) {
	s := NewHMACStrategy("secret", Options{})
	token, err := s.IssueToken(testActor())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	tampered := token[:len(token)-4] + "AAAA"
	if _, err := s.ParseToken(tampered); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategyRejectsForeignSecret(t *testing.T) {
	issuer := NewHMACStrategy("secret-a", Options{})
	verifier := NewHMACStrategy("secret-b", Options{})

	token, err := issuer.IssueToken(testActor())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := verifier.ParseToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategyRejectsExpiredToken(t *testing.T) {
	s := NewHMACStrategy("secret", Options{TTL: -time.Minute})
	token, err := s.IssueToken(testActor())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := s.ParseToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestHMACStrategyRejectsUnknownRole(t *testing.T) {
	s := NewHMACStrategy("secret", Options{})
	actor := model.Actor{ID: uuid.New(), TenantID: uuid.New(), Role: "superadmin"}
	token, err := s.IssueToken(actor)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := s.ParseToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for unknown role, got %v", err)
	}
}

func TestHMACStrategyRejectsGarbage(t *testing.T) {
	s := NewHMACStrategy("secret", Options{})
	for _, token := range []string{"", "not-base64!!", "YWJjOmRlZg=="} {
		if _, err := s.ParseToken(token); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}
