package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the backend encodes into its access token. The client never
// verifies the signature; these values are for display only and play no part
// in access decisions.
type Claims struct {
	Subject   string
	Name      string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim lies before now. A token
// without exp never expires.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

type tokenClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// InspectCredential decodes the token payload without verifying it.
func InspectCredential(token string) (Claims, error) {
	if token == "" {
		return Claims{}, fmt.Errorf("empty credential")
	}

	var tc tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &tc); err != nil {
		return Claims{}, fmt.Errorf("decode credential: %w", err)
	}

	claims := Claims{
		Subject: tc.Subject,
		Name:    tc.Name,
		Role:    tc.Role,
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Time
	}
	return claims, nil
}
