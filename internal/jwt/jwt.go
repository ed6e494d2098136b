package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The gateway's bearer token is opaque to us. When it happens to be a JWT we
// can still read its expiry without the signing key.

// ExpiresAt returns the exp claim of token. ok is false when the token is not
// a JWT or carries no exp claim.
func ExpiresAt(token string) (expiresAt time.Time, ok bool) {
	var claims jwt.RegisteredClaims
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether token is a JWT whose exp claim lies before now.
// Opaque tokens never count as expired.
func Expired(token string, now time.Time) bool {
	expiresAt, ok := ExpiresAt(token)
	if !ok {
		return false
	}
	return now.UTC().After(expiresAt.UTC())
}
