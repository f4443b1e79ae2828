package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestService() *HMACService {
	return NewHMACService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "jane@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("userID = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "jane@x.com" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("tokenType = %q", claims.TokenType)
	}
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateRefreshToken(uuid.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.ValidateAccessToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateAccessToken(uuid.New(), "jane@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.ValidateRefreshToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestExpiredToken(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := svc.GenerateAccessToken(uuid.New(), "jane@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.ValidateAccessToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestTamperedToken(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateAccessToken(uuid.New(), "jane@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := NewHMACService("other-secret", "refresh-secret", 15*time.Minute, time.Hour)
	if _, err := other.ValidateAccessToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestGenerateRequiresSecret(t *testing.T) {
	svc := NewHMACService("", "", time.Minute, time.Minute)
	if _, err := svc.GenerateAccessToken(uuid.New(), "jane@x.com"); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
