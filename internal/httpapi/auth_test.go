package httpapi

import (
	"strings"
	"testing"
	"time"

	"pharmapulse/backend/internal/domain"
)

func TestAuthManagerIssuesParsableToken(t *testing.T) {
	manager := NewAuthManager("test-secret-key-that-is-long-enough", time.Hour, "4821")

	resp, actor, err := manager.Login(domain.LoginRequest{PIN: "4821"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if strings.TrimSpace(resp.AccessToken) == "" || resp.ExpiresAt == "" {
		t.Fatalf("expected token and expiry, got %+v", resp)
	}
	if actor.Username != shopUsername || actor.Role != shopRole {
		t.Fatalf("unexpected actor %+v", actor)
	}

	parsed, err := manager.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if parsed != actor {
		t.Fatalf("expected %+v, got %+v", actor, parsed)
	}
}

func TestAuthManagerRejectsWrongPIN(t *testing.T) {
	manager := NewAuthManager("test-secret", time.Hour, "4821")

	for _, pin := range []string{"", "0000", "48211"} {
		if _, _, err := manager.Login(domain.LoginRequest{PIN: pin}); err == nil {
			t.Fatalf("expected pin %q to be rejected", pin)
		}
	}
}

func TestAuthManagerWithoutPINRejectsEverything(t *testing.T) {
	manager := NewAuthManager("test-secret", time.Hour, "")
	if _, _, err := manager.Login(domain.LoginRequest{PIN: "1234"}); err == nil {
		t.Fatalf("expected login to fail without a configured pin")
	}
}

func TestParseTokenRejectsForeignSecretAndExpiry(t *testing.T) {
	issuer := NewAuthManager("secret-one", time.Hour, "4821")
	other := NewAuthManager("secret-two", time.Hour, "4821")

	resp, _, err := issuer.Login(domain.LoginRequest{PIN: "4821"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := other.ParseToken(resp.AccessToken); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}

	expired := NewAuthManager("secret-one", time.Minute, "4821")
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Login(domain.LoginRequest{PIN: "4821"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := issuer.ParseToken(old.AccessToken); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestPINHashIsNotPlainText(t *testing.T) {
	manager := NewAuthManager("secret", time.Hour, "4821")
	if manager.pinHash == "4821" || !isPasswordHash(manager.pinHash) {
		t.Fatalf("expected bcrypt hash, got %q", manager.pinHash)
	}
}
