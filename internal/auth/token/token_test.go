package token

import (
	"testing"
	"time"

	"github.com/shresthgour/indiamun-backend/internal/auth/domain"
)

func testUser() *domain.User {
	return &domain.User{ID: 1234567890, Email: "user@example.com", Role: domain.RoleUser}
}

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	raw, expiresAt, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatal("expected expiry in the future")
	}

	claims, err := issuer.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "1234567890" {
		t.Fatalf("subject = %s, want 1234567890", claims.Subject)
	}
	if claims.Role != domain.RoleUser {
		t.Fatalf("role = %s, want USER", claims.Role)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	raw, _, err := NewIssuer("secret-a", time.Hour).Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewIssuer("secret-b", time.Hour).Parse(raw); err != domain.ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)
	raw, _, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.Parse(raw); err != domain.ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	if _, err := issuer.Parse("not-a-token"); err != domain.ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}
