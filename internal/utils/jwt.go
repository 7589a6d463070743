// Package utils provides password hashing and session token helpers.
package utils

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the claim set embedded in every session token: the
// account id (as the registered subject), email, role and a role-shaped
// profile snapshot. Tokens are self-contained; nothing is persisted.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email   string         `json:"email"`
	Role    string         `json:"role"`
	Profile map[string]any `json:"profile"`
}

// AccountID parses the subject claim back into the numeric account id.
func (c *SessionClaims) AccountID() (uint64, error) {
	return strconv.ParseUint(c.Subject, 10, 64)
}

// SessionToken is a signed token together with its expiry.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// NewSessionToken signs an HS256 JWT valid for ttl.
func NewSessionToken(secret string, accountID uint64, email, role string, profile map[string]any, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(accountID, 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email:   email,
		Role:    role,
		Profile: profile,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies the signature and expiry of a session token
// and returns its claims. Only HMAC-signed tokens are accepted.
func ParseSessionToken(secret, raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
