package gatekeeper_test

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gatekeeper "github.com/telamon-labs/go-gatekeeper"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantCode     int
		wantMessage  string
		wantTextCode string
	}{
		{
			name:         "rich error passes through",
			err:          gatekeeper.ErrInvalidCredentials,
			wantCode:     goerrors.CodeUnauthorized,
			wantMessage:  "Invalid username or password",
			wantTextCode: gatekeeper.TextCodeInvalidCreds,
		},
		{
			name:         "conflict keeps its status",
			err:          gatekeeper.ErrDuplicateEmail,
			wantCode:     goerrors.CodeConflict,
			wantMessage:  "Conflict",
			wantTextCode: gatekeeper.TextCodeDuplicateEmail,
		},
		{
			name:        "plain error collapses to 500",
			err:         errors.New("database on fire"),
			wantCode:    goerrors.CodeInternal,
			wantMessage: "Internal Server Error",
		},
		{
			name:        "rich error without status gets 500",
			err:         goerrors.New("no code set", goerrors.CategoryOperation),
			wantCode:    goerrors.CodeInternal,
			wantMessage: "no code set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rich := gatekeeper.Normalize(tt.err)
			require.NotNil(t, rich)
			assert.Equal(t, tt.wantCode, rich.Code)
			assert.Equal(t, tt.wantMessage, rich.Message)
			if tt.wantTextCode != "" {
				assert.Equal(t, tt.wantTextCode, rich.TextCode)
			}
		})
	}
}

func TestNormalizeNil(t *testing.T) {
	assert.Nil(t, gatekeeper.Normalize(nil))
}

func TestNormalizeKeepsCause(t *testing.T) {
	cause := errors.New("database on fire")
	rich := gatekeeper.Normalize(cause)
	assert.True(t, errors.Is(rich, cause))
	assert.Equal(t, "Internal Server Error", rich.Message)
}

func TestVerificationErrorsShareClientMessage(t *testing.T) {
	assert.Equal(t, gatekeeper.ErrMissingAuthorization.Message, gatekeeper.ErrTokenExpired.Message)
	assert.Equal(t, gatekeeper.ErrMissingAuthorization.Message, gatekeeper.ErrTokenMalformed.Message)

	codes := map[string]bool{
		gatekeeper.ErrMissingAuthorization.TextCode: true,
		gatekeeper.ErrTokenExpired.TextCode:         true,
		gatekeeper.ErrTokenMalformed.TextCode:       true,
	}
	assert.Len(t, codes, 3)
}

func TestIsTokenExpiredError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", gatekeeper.ErrTokenExpired, true},
		{"wrapped sentinel", goerrors.Wrap(gatekeeper.ErrTokenExpired, goerrors.CategoryAuth, "verify").WithTextCode(gatekeeper.TextCodeTokenExpired), true},
		{"jwt message", errors.New("token has invalid claims: token is expired"), true},
		{"other error", errors.New("boom"), false},
		{"malformed sentinel", gatekeeper.ErrTokenMalformed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gatekeeper.IsTokenExpiredError(tt.err))
		})
	}
}

func TestIsMalformedError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", gatekeeper.ErrTokenMalformed, true},
		{"jwt message", errors.New("token is malformed: could not base64 decode"), true},
		{"middleware message", errors.New("missing or malformed JWT"), true},
		{"other error", errors.New("boom"), false},
		{"expired sentinel", gatekeeper.ErrTokenExpired, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gatekeeper.IsMalformedError(tt.err))
		})
	}
}

func TestErrorHandlerRendersFiberErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: gatekeeper.NewErrorHandler(nil)})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(jsonRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "short and stout", readBody(t, resp))
}
