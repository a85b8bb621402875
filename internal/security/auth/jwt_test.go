package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", "roombook")

	token, err := tm.GenerateToken("user-1", "alice@example.com", "Alice", 15*time.Minute)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	claims, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "alice@example.com" || claims.Name != "Alice" {
		t.Errorf("claims round trip mismatch: %+v", claims)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", "roombook")
	other := NewTokenManager("secret-b", "roombook")

	token, err := tm.GenerateToken("user-1", "a@example.com", "A", time.Minute)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("expected validation failure with wrong secret")
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", "roombook")

	token, err := tm.GenerateToken("user-1", "a@example.com", "A", -time.Minute)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if _, err := tm.ValidateToken(token); err == nil {
		t.Error("expected validation failure for expired token")
	}
}

func TestGenerateRequiresUserID(t *testing.T) {
	tm := NewTokenManager("secret", "roombook")
	if _, err := tm.GenerateToken("", "a@example.com", "A", time.Minute); err == nil {
		t.Error("expected error for empty user id")
	}
}

func TestExtractToken(t *testing.T) {
	if tok, err := ExtractToken("Bearer abc.def.ghi"); err != nil || tok != "abc.def.ghi" {
		t.Errorf("ExtractToken = %q, %v", tok, err)
	}
	for _, header := range []string{"", "abc", "Basic abc", "Bearer a b"} {
		if _, err := ExtractToken(header); err == nil {
			t.Errorf("expected error for header %q", header)
		}
	}
}
