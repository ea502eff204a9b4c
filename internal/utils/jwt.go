package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret = []byte(os.Getenv("JWT_SECRET"))

// SessionTokenClaims carry the authenticated principal for clients that
// connect with a signed session token instead of a browser session cookie.
type SessionTokenClaims struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	jwt.RegisteredClaims
}

func ValidateSessionToken(tokenStr string) (*SessionTokenClaims, error) {
	if len(jwtSecret) == 0 {
		return nil, errors.New("JWT_SECRET is not configured")
	}
	claims := &SessionTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" {
		return nil, errors.New("token missing userId")
	}
	return claims, nil
}

func ExtractTokenFromHeader(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
