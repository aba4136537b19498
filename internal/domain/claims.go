package domain

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims carried by an access token. The server signs
// and verifies them; the client only decodes them to read identity and
// expiry, it is not the verifier.
type TokenClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// DecodeToken extracts claims from a raw token without verifying the
// signature. A token that cannot be decoded is unusable and forces logout
// on the caller's side.
func DecodeToken(raw string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("decode token: missing exp claim")
	}
	return claims, nil
}
