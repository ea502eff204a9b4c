package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestValidateSessionTokenSuccess(t *testing.T) {
	prev := jwtSecret
	t.Cleanup(func() { jwtSecret = prev })
	jwtSecret = []byte("secret-key")

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &SessionTokenClaims{
		UserID:      "user-1",
		DisplayName: "Ada",
	}).SignedString(jwtSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	claims, err := ValidateSessionToken(tokenStr)
	if err != nil {
		t.Fatalf("expected valid token, got error %v", err)
	}
	if claims.UserID != "user-1" || claims.DisplayName != "Ada" {
		t.Fatalf("unexpected claims: %#v", claims)
	}
}

func TestValidateSessionTokenInvalidSignature(t *testing.T) {
	prev := jwtSecret
	t.Cleanup(func() { jwtSecret = prev })
	jwtSecret = []byte("secret-a")

	badToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &SessionTokenClaims{
		UserID: "u",
	}).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := ValidateSessionToken(badToken); err == nil {
		t.Fatalf("expected validation failure")
	}
}

func TestValidateSessionTokenUnexpectedMethod(t *testing.T) {
	prev := jwtSecret
	t.Cleanup(func() { jwtSecret = prev })
	jwtSecret = []byte("secret-a")

	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodRS256, &SessionTokenClaims{
		UserID: "u",
	}).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := ValidateSessionToken(tokenStr); err == nil || !strings.Contains(err.Error(), "unexpected signing method") {
		t.Fatalf("expected signing method error, got %v", err)
	}
}

func TestValidateSessionTokenExpired(t *testing.T) {
	prev := jwtSecret
	t.Cleanup(func() { jwtSecret = prev })
	jwtSecret = []byte("secret-b")

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &SessionTokenClaims{
		UserID: "u",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString(jwtSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := ValidateSessionToken(tokenStr); err == nil {
		t.Fatalf("expected expiration error")
	}
}

func TestValidateSessionTokenMissingUserID(t *testing.T) {
	prev := jwtSecret
	t.Cleanup(func() { jwtSecret = prev })
	jwtSecret = []byte("secret-c")

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &SessionTokenClaims{
		DisplayName: "nameless",
	}).SignedString(jwtSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := ValidateSessionToken(tokenStr); err == nil {
		t.Fatalf("expected missing userId error")
	}
}

func TestValidateSessionTokenEmptySecret(t *testing.T) {
	prev := jwtSecret
	t.Cleanup(func() { jwtSecret = prev })
	jwtSecret = nil

	// A token signed with the empty key must not authenticate when no
	// secret is configured.
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &SessionTokenClaims{
		UserID: "victim",
	}).SignedString([]byte(""))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := ValidateSessionToken(tokenStr); err == nil {
		t.Fatalf("expected validation failure with unset secret")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	const token = "abc123"
	value, err := ExtractTokenFromHeader("Bearer " + token)
	if err != nil || value != token {
		t.Fatalf("unexpected result %q err=%v", value, err)
	}

	for _, header := range []string{"", "Token " + token, "Bearer"} {
		if _, err := ExtractTokenFromHeader(header); err == nil {
			t.Fatalf("expected error for header %q", header)
		}
	}
}
