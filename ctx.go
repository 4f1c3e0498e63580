package gatekeeper

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// Locals keys for values the pipeline hands to downstream handlers.
const (
	// LocalTokenKey holds the freshly signed token string.
	LocalTokenKey = "token"
	// LocalClaimsKey holds the decoded *TokenClaims of the caller.
	LocalClaimsKey = "decoded"
)

var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithClaimsContext sets the decoded claims in the given context
func WithClaimsContext(ctx context.Context, claims *TokenClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// ClaimsFromContext extracts the decoded claims from the standard context
func ClaimsFromContext(ctx context.Context) (*TokenClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*TokenClaims)
	return raw, ok
}

// TokenFromLocals returns the token stashed by IssueToken.
func TokenFromLocals(c *fiber.Ctx) (string, bool) {
	raw := c.Locals(LocalTokenKey)
	if raw == nil {
		return "", false
	}
	token, ok := raw.(string)
	return token, ok
}

// ClaimsFromLocals returns the claims attached by VerifyAccess.
func ClaimsFromLocals(c *fiber.Ctx) (*TokenClaims, bool) {
	raw := c.Locals(LocalClaimsKey)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(*TokenClaims)
	return claims, ok
}
