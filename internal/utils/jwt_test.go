package utils_test

import (
	"errors"
	"testing"
	"time"

	"github.com/USA-RedDragon/obs-remote/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

const secret = "changeme"

func TestJWTRoundTrip(t *testing.T) {
	t.Parallel()
	token, err := utils.GenerateJWT(secret, "stream-deck", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	subject, err := utils.VerifyJWT(secret, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != "stream-deck" {
		t.Errorf("unexpected subject: %s", subject)
	}
}

func TestJWTWithoutExpiry(t *testing.T) {
	t.Parallel()
	token, err := utils.GenerateJWT(secret, "phone", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := utils.VerifyJWT(secret, token); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	t.Parallel()
	token, err := utils.GenerateJWT(secret, "phone", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := utils.VerifyJWT("other", token); !errors.Is(err, utils.ErrInvalidToken) {
		t.Errorf("expected invalid token, got %v", err)
	}
}

func TestJWTExpired(t *testing.T) {
	t.Parallel()
	// Past the five minute leeway
	token, err := utils.GenerateJWT(secret, "phone", -10*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := utils.VerifyJWT(secret, token); !errors.Is(err, utils.ErrInvalidToken) {
		t.Errorf("expected invalid token, got %v", err)
	}
}

func TestJWTRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "phone"})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := utils.VerifyJWT(secret, signed); !errors.Is(err, utils.ErrInvalidToken) {
		t.Errorf("expected invalid token, got %v", err)
	}
}

func TestJWTMissingSubject(t *testing.T) {
	t.Parallel()
	token, err := utils.GenerateJWT(secret, "", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := utils.VerifyJWT(secret, token); !errors.Is(err, utils.ErrInvalidToken) {
		t.Errorf("expected invalid token, got %v", err)
	}
}
