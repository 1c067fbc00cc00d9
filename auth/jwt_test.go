package auth

import (
	"errors"
	"testing"
	"time"
)

var secret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	token, err := CreateToken(secret, "uid-1", "maya", "editor", time.Hour)
	if err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}
	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.Subject != "uid-1" || claims.Username != "maya" || claims.Role != "editor" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestExpiredToken(t *testing.T) {
	token, err := CreateToken(secret, "uid-1", "maya", "viewer", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken(secret, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token = %v, want ErrInvalidToken", err)
	}
}

func TestWrongSecret(t *testing.T) {
	token, err := CreateToken(secret, "uid-1", "maya", "viewer", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken([]byte("other"), token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestGarbageToken(t *testing.T) {
	if _, err := ParseToken(secret, "not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token = %v, want ErrInvalidToken", err)
	}
}
