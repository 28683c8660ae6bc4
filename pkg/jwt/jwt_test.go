package jwt

import (
	"errors"
	"testing"
	"time"

	"dormhub.io/repairdesk/internal/entity"
	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewManager("unit-test-secret", time.Hour)
	userID := uuid.New()

	token, expiresAt, err := manager.GenerateToken(userID, "wang.fang", entity.RoleAdmin)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatal("token expires in the past")
	}

	claims, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != userID.String() {
		t.Fatalf("subject = %q, want %q", claims.Subject, userID)
	}
	if claims.Username != "wang.fang" || claims.Role != entity.RoleAdmin {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, _, err := NewManager("secret-a", time.Hour).GenerateToken(uuid.New(), "u", entity.RoleStudent)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := NewManager("secret-b", time.Hour).ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestParseTokenExpired(t *testing.T) {
	manager := NewManager("unit-test-secret", -time.Minute)

	token, _, err := manager.GenerateToken(uuid.New(), "u", entity.RoleStudent)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := manager.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expired token, got %v", err)
	}
}
