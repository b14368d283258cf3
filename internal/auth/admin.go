package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims are the claims carried by an admin service token
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenValidator validates HS256 admin tokens for the promotion admin API.
// Shopper traffic is unauthenticated; only the admin surface is guarded.
type TokenValidator struct {
	secret []byte
}

// NewTokenValidator creates a validator with the shared signing secret
func NewTokenValidator(secret string) (*TokenValidator, error) {
	if secret == "" {
		return nil, fmt.Errorf("admin token secret is required")
	}
	return &TokenValidator{secret: []byte(secret)}, nil
}

// ValidateToken parses and validates a bearer token, requiring the admin role
func (v *TokenValidator) ValidateToken(tokenString string) (*AdminClaims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, fmt.Errorf("token is required")
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	if claims.Role != "admin" {
		return nil, fmt.Errorf("token does not carry the admin role")
	}
	return claims, nil
}

// IssueToken mints an admin token, used by operational tooling and tests
func (v *TokenValidator) IssueToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
