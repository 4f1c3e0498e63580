package gatekeeper

import (
	"crypto/rsa"
	"os"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// KeyPair holds the RSA key material used to sign and verify tokens. It is
// immutable after construction; concurrent use needs no locking.
type KeyPair struct {
	private *rsa.PrivateKey
	public  *rsa.PublicKey
}

// NewKeyPair parses PEM-encoded RSA keys. Either side may be empty: a
// private key alone derives its public half, a public key alone yields a
// verify-only pair.
func NewKeyPair(privatePEM, publicPEM []byte) (*KeyPair, error) {
	kp := &KeyPair{}

	if len(privatePEM) > 0 {
		key, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to parse private signing key").
				WithCode(goerrors.CodeInternal)
		}
		kp.private = key
		kp.public = &key.PublicKey
	}

	if len(publicPEM) > 0 {
		key, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to parse public verification key").
				WithCode(goerrors.CodeInternal)
		}
		kp.public = key
	}

	if kp.private == nil && kp.public == nil {
		return nil, ErrSigningUnavailable
	}

	return kp, nil
}

// LoadKeyPair reads both PEM files and builds the pair. Callers treat a
// failure as a startup-time condition: log it once and run with a nil pair,
// which makes every sign/verify call fail with ErrSigningUnavailable.
func LoadKeyPair(privatePath, publicPath string) (*KeyPair, error) {
	privatePEM, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to read private key file").
			WithTextCode(TextCodeSigningUnavailable).
			WithCode(goerrors.CodeInternal)
	}

	publicPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to read public key file").
			WithTextCode(TextCodeSigningUnavailable).
			WithCode(goerrors.CodeInternal)
	}

	return NewKeyPair(privatePEM, publicPEM)
}

// CanSign reports whether the pair carries a private key.
func (k *KeyPair) CanSign() bool {
	return k != nil && k.private != nil
}

// CanVerify reports whether the pair carries a public key.
func (k *KeyPair) CanVerify() bool {
	return k != nil && k.public != nil
}
