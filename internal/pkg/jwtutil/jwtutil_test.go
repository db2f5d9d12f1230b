package jwtutil

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	signed, err := GenerateToken("secret", time.Hour, "MENTEE", 42)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := ParseToken("secret", signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Role != "MENTEE" {
		t.Errorf("expected role MENTEE, got %q", claims.Role)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	signed, err := GenerateToken("secret", time.Hour, "MENTOR", 1)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := ParseToken("other", signed); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	signed, err := GenerateToken("secret", -time.Minute, "MENTOR", 1)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := ParseToken("secret", signed); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("secret", "not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
