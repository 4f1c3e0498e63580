package gatekeeper

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPayload is the identity claim embedded into a signed token. It is
// built per request and never persisted.
type TokenPayload struct {
	Email string `json:"email"`
}

// TokenClaims is the decoded form of a signed token: the subject email plus
// the registered time claims.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Subject returns the subject claim, falling back to the email.
func (c *TokenClaims) Subject() string {
	if c.RegisteredClaims.Subject != "" {
		return c.RegisteredClaims.Subject
	}
	return c.Email
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
