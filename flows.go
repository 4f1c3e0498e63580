package gatekeeper

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// CredentialsPayload is the request body consumed by the register, login,
// and issue-token pipelines.
type CredentialsPayload struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r CredentialsPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// Flows composes the token service, user store, and password hasher into the
// middleware pipeline handlers: issue token, register, verify access, verify
// login. Each handler either calls Next or returns a rich error for the
// error handler to normalize.
type Flows struct {
	tokens TokenService
	users  UserStore
	hasher PasswordAuthenticator
	logger Logger
}

// FlowsOption configures a Flows instance.
type FlowsOption func(*Flows)

// WithFlowsLogger overrides the default logger.
func WithFlowsLogger(logger Logger) FlowsOption {
	return func(f *Flows) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithPasswordAuthenticator overrides the bcrypt hasher.
func WithPasswordAuthenticator(hasher PasswordAuthenticator) FlowsOption {
	return func(f *Flows) {
		if hasher != nil {
			f.hasher = hasher
		}
	}
}

// NewFlows returns the pipeline handlers bound to the given collaborators.
func NewFlows(tokens TokenService, users UserStore, opts ...FlowsOption) *Flows {
	f := &Flows{
		tokens: tokens,
		users:  users,
		hasher: bcryptAuthenticator{},
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	return f
}

// IssueToken signs a token for the email in the request body and stashes it
// in the request locals for a downstream handler to send back.
func (f *Flows) IssueToken(c *fiber.Ctx) error {
	payload := new(CredentialsPayload)
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse request body").
			WithCode(goerrors.CodeBadRequest)
	}

	token, err := f.tokens.Sign(TokenPayload{Email: payload.Email})
	if err != nil {
		f.logger.Error("token issuance failed", "email", payload.Email, "error", err)
		return err
	}

	c.Locals(LocalTokenKey, token)
	return c.Next()
}

// RegisterUser validates the registration payload, rejects duplicate emails,
// hashes the password, and persists the new user. The plaintext password
// never outlives the hashing call.
func (f *Flows) RegisterUser(c *fiber.Ctx) error {
	payload := new(CredentialsPayload)
	if err := c.BodyParser(payload); err != nil {
		f.logger.Debug("registration body rejected", "error", err)
		return ErrBadRegistration
	}

	if err := payload.Validate(); err != nil {
		f.logger.Debug("registration payload rejected", "error", err)
		return ErrBadRegistration
	}

	ctx := c.UserContext()

	if _, err := f.users.GetByEmail(ctx, payload.Email); err == nil {
		return ErrDuplicateEmail
	} else if !goerrors.IsNotFound(err) {
		return err
	}

	hash, err := f.hasher.HashPassword(payload.Password)
	if err != nil {
		f.logger.Error("password hashing failed during registration", "error", err)
		return err
	}

	if _, err := f.users.Register(ctx, &User{Email: payload.Email, PasswordHash: hash}); err != nil {
		return err
	}

	return c.Next()
}

// VerifyAccess gates a route by its policy. Public routes continue without
// any credential work; protected routes require a bearer token that
// verifies, and attach the decoded claims to the request.
func (f *Flows) VerifyAccess(policy RoutePolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if policy.Public {
			return c.Next()
		}

		raw, err := extractBearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}

		claims, err := f.tokens.Verify(raw)
		if err != nil {
			f.logger.Info("access token rejected", "path", c.Path(), "cause", err)
			return asUnauthorized(err)
		}

		c.Locals(LocalClaimsKey, claims)
		c.SetUserContext(WithClaimsContext(c.UserContext(), claims))
		return c.Next()
	}
}

// VerifyLogin checks the submitted credentials against the stored user.
// Unknown user and wrong password are indistinguishable to the caller.
func (f *Flows) VerifyLogin(c *fiber.Ctx) error {
	payload := new(CredentialsPayload)
	if err := c.BodyParser(payload); err != nil {
		return ErrInvalidCredentials
	}

	user, err := f.users.GetByEmail(c.UserContext(), payload.Email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			f.logger.Info("login rejected", "email", payload.Email)
			return ErrInvalidCredentials
		}
		return err
	}

	if err := f.hasher.ComparePasswordAndHash(payload.Password, user.PasswordHash); err != nil {
		var rich *goerrors.Error
		if goerrors.As(err, &rich) && rich.Category == goerrors.CategoryInternal {
			f.logger.Error("password comparison failed", "error", err)
			return rich
		}
		f.logger.Info("login rejected", "email", payload.Email)
		return ErrInvalidCredentials
	}

	return c.Next()
}

// extractBearerToken strips the Bearer scheme from the Authorization header.
// An absent or schemeless header short-circuits before any token parsing.
func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingAuthorization
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", ErrMissingAuthorization
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", ErrMissingAuthorization
	}
	return token, nil
}

// asUnauthorized collapses verification failures to a single 401 shape while
// letting infrastructure failures keep their 500 status.
func asUnauthorized(err error) error {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		if rich.Category == goerrors.CategoryInternal {
			return rich
		}
		if rich.Code == goerrors.CodeUnauthorized {
			return rich
		}
	}
	return goerrors.Wrap(err, goerrors.CategoryAuth, ErrMissingAuthorization.Message).
		WithTextCode(TextCodeTokenMalformed).
		WithCode(goerrors.CodeUnauthorized)
}
