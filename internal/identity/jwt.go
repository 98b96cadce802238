// Package identity maps incoming HTTP requests to the identity they are
// billed as: the subject of a valid bearer token, a self-reported client
// ID, or the caller's IP, in that order.
package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator signs and validates the HMAC bearer tokens the gateway
// accepts.
type Authenticator struct {
	secret string
	iss    string
	aud    string
}

func NewAuthenticator(secret, iss, aud string) *Authenticator {
	return &Authenticator{secret: secret, iss: iss, aud: aud}
}

// GenerateToken signs claims with the shared secret.
func (a *Authenticator) GenerateToken(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(a.secret))
}

// ValidateToken verifies the signature, expiry, issuer and audience.
func (a *Authenticator) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.secret), nil
	},
		jwt.WithIssuer(a.iss),
		jwt.WithAudience(a.aud),
	)
}
