package gatekeeper

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultTokenExpiration is the token lifetime in hours.
const DefaultTokenExpiration = 1

// TokenService signs identity payloads into compact tokens and verifies them
// back into claims.
type TokenService interface {
	Sign(payload TokenPayload) (string, error)
	Verify(tokenString string) (*TokenClaims, error)
}

// TokenServiceImpl implements the TokenService interface using RS256 over an
// injected, immutable KeyPair.
type TokenServiceImpl struct {
	keys            *KeyPair
	tokenExpiration int
	issuer          string
	audience        jwt.ClaimStrings
	logger          Logger
}

// NewTokenService creates a new TokenService instance. tokenExpiration is in
// hours; values below one fall back to DefaultTokenExpiration.
func NewTokenService(keys *KeyPair, tokenExpiration int, issuer string, audience jwt.ClaimStrings, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	if tokenExpiration < 1 {
		tokenExpiration = DefaultTokenExpiration
	}
	return &TokenServiceImpl{
		keys:            keys,
		tokenExpiration: tokenExpiration,
		issuer:          issuer,
		audience:        audience,
		logger:          logger,
	}
}

// Sign encodes the payload plus issued-at and expiry claims and signs it
// with the private key.
func (ts *TokenServiceImpl) Sign(payload TokenPayload) (string, error) {
	now := time.Now()

	var aud jwt.ClaimStrings
	if len(ts.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
	}

	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   payload.Email,
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl())),
		},
		Email: payload.Email,
	}

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary token claims using the configured private key.
func (ts *TokenServiceImpl) SignClaims(claims *TokenClaims) (string, error) {
	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal)
	}

	if !ts.keys.CanSign() {
		return "", ErrSigningUnavailable
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)

	signedString, err := token.SignedString(ts.keys.private)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign token").
			WithCode(goerrors.CodeInternal)
	}

	return signedString, nil
}

// Verify parses and validates a token string, returning the decoded claims.
// It pins the algorithm to RS256 and enforces both the expiry claim and a
// maximum age measured from issued-at, so a token is never honored beyond
// its lifetime even with a forged expiry.
func (ts *TokenServiceImpl) Verify(tokenString string) (*TokenClaims, error) {
	if !ts.keys.CanVerify() {
		return nil, ErrSigningUnavailable
	}

	parserOptions := make([]jwt.ParserOption, 0, 3)
	parserOptions = append(parserOptions, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			ts.logger.Error("TokenService verify encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.keys.public, nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode).
			WithCode(goerrors.CodeUnauthorized)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService verify could not decode claims")
		return nil, ErrTokenMalformed
	}

	if iat := claims.IssuedAt(); !iat.IsZero() && time.Since(iat) > ts.ttl() {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

func (ts *TokenServiceImpl) ttl() time.Duration {
	return time.Duration(ts.tokenExpiration) * time.Hour
}

var _ TokenService = (*TokenServiceImpl)(nil)
