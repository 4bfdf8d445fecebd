// Package token issues and verifies the signed tokens that carry a user's
// identity between requests.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// Issuer and Audience identify tokens minted by this service.
	Issuer   = "witter-api"
	Audience = "witter-client"
)

// Claims is the explicit claims schema. Handle is required; a decoded token
// without it is rejected.
type Claims struct {
	Handle string `json:"handle"`
	jwt.RegisteredClaims
}

// ErrMissingHandle is returned when a structurally valid token carries no
// handle claim.
var ErrMissingHandle = errors.New("token has no handle claim")

// Issue signs an HS256 token for the given handle. Tokens carry no expiry;
// sessions end when the account is deleted or the secret rotates.
func Issue(handle, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("signing secret not configured")
	}

	now := time.Now()
	claims := Claims{
		Handle: handle,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  handle,
			Issuer:   Issuer,
			Audience: jwt.ClaimStrings{Audience},
			IssuedAt: jwt.NewNumericDate(now),
			ID:       fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Decode verifies the token's signature with the service secret and returns
// its claims. Only HMAC-signed tokens are accepted.
func Decode(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Handle == "" {
		return nil, ErrMissingHandle
	}
	return claims, nil
}

// VerifyOrigin reports whether the token's signature was produced with this
// service's secret and carries this service's issuer. It never returns an
// error: malformed input, a foreign signature, or a foreign issuer all
// yield false.
func VerifyOrigin(tokenString, secret string) bool {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return false
	}

	issuer, err := claims.GetIssuer()
	if err != nil || issuer != Issuer {
		return false
	}
	return true
}
