package auth

import (
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	token, err := manager.GenerateToken("user-123", "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("UserID = %s, want user-123", claims.UserID)
	}
	if claims.Username != "alice" || claims.Email != "alice@example.com" {
		t.Errorf("identity claims = %s/%s", claims.Username, claims.Email)
	}
	if claims.Subject != "user-123" {
		t.Errorf("Subject = %s, want user-123", claims.Subject)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	other := NewJWTManager("other-secret", time.Hour, 24*time.Hour)

	token, err := manager.GenerateToken("user-123", "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("a token signed with another secret must not validate")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute, 24*time.Hour)

	token, err := manager.GenerateToken("user-123", "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := manager.ValidateToken(token); err == nil {
		t.Fatal("an expired token must not validate")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	if _, err := manager.ValidateToken("not.a.token"); err == nil {
		t.Fatal("garbage input must not validate")
	}
}

func TestRefreshToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	token, err := manager.GenerateRefreshToken("user-123")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("UserID = %s, want user-123", claims.UserID)
	}
	if claims.Username != "" || claims.Email != "" {
		t.Error("refresh token should carry only the user ID")
	}
}
