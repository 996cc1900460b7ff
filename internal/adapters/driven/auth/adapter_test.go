package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/custodia-labs/insight-core/internal/core/domain"
)

func TestAdapter_SignAndVerify(t *testing.T) {
	adapter := NewAdapter("test-secret")

	token, err := adapter.Sign("session-123", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error signing token: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	sessionID, err := adapter.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error verifying token: %v", err)
	}
	if sessionID != "session-123" {
		t.Errorf("expected session-123, got %s", sessionID)
	}
}

func TestAdapter_Verify_ExpiredToken(t *testing.T) {
	adapter := NewAdapter("test-secret")

	token, err := adapter.Sign("session-123", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("unexpected error signing token: %v", err)
	}

	_, err = adapter.Verify(token)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestAdapter_Verify_WrongSecret(t *testing.T) {
	signer := NewAdapter("secret-a")
	verifier := NewAdapter("secret-b")

	token, err := signer.Sign("session-123", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for mis-signed token, got %v", err)
	}
}

func TestAdapter_Verify_Garbage(t *testing.T) {
	adapter := NewAdapter("test-secret")

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := adapter.Verify(token); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("Verify(%q): expected ErrTokenInvalid, got %v", token, err)
		}
	}
}
