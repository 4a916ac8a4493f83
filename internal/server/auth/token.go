package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/asanchezr/bancoseguro/internal/common"
)

// sessionClaims binds a token to both a username and a live server-side
// session. The token alone is not enough to act: the session registry must
// still hold the session ID, so logout and idle eviction cut tokens off
// immediately.
type sessionClaims struct {
	jwt.RegisteredClaims
}

// TokenIssuer mints and parses HS256 session tokens.
type TokenIssuer struct {
	secret   []byte
	validity time.Duration
}

func NewTokenIssuer(secret []byte, validity time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, validity: validity}
}

// Issue signs a token carrying the username as subject and the session ID.
func (i *TokenIssuer) Issue(username, sessionID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.validity)),
		},
	})

	return token.SignedString(i.secret)
}

// Parse validates the signature and expiry and returns (username, sessionID).
// Any failure maps to common.ErrInvalidToken.
func (i *TokenIssuer) Parse(tokenString string) (string, string, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", common.ErrInvalidToken
	}

	return claims.Subject, claims.ID, nil
}
