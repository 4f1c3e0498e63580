// Package gatekeeper provides the identity and access-control core for a
// proxying HTTP gateway: credential hashing, RS256 token issuance and
// verification, user registration and login pipelines, and per-route
// public/private gating.
//
// The package is transport-aware but infrastructure-agnostic: handlers are
// fiber middleware that either continue the chain or return a rich error,
// while storage, key material, and logging arrive through small contracts
// (UserStore, KeyPair, Logger) wired by the embedding application.
//
// Error handling:
//   - Every failure surfaces as a *errors.Error from goliatone/go-errors
//     carrying an HTTP status code and a client-safe message. Normalize is
//     the single conversion point; NewErrorHandler installs it as the fiber
//     error handler so exactly one (status, message) pair reaches the wire.
//   - Login failures are deliberately indistinguishable between unknown user
//     and wrong password, and all token verification failures collapse to one
//     401 message. Specific causes are logged server-side only.
//
// Key material:
//   - KeyPair is an immutable value constructed once at startup from
//     PEM-encoded RSA keys and injected into NewTokenService. If keys are
//     missing the process keeps serving; signing and verification fail fast
//     per request with a 500-class error.
package gatekeeper
