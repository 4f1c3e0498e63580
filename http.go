package gatekeeper

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// NewErrorHandler returns the fiber error handler that renders normalized
// errors. Every failure that reaches the transport goes through here exactly
// once: it is logged with its status and cause, and the client receives the
// normalized status code and message.
func NewErrorHandler(logger Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if goerrors.As(err, &fiberErr) {
			logger.Info("request error", "status", fiberErr.Code, "message", fiberErr.Message, "path", c.Path())
			return c.Status(fiberErr.Code).SendString(fiberErr.Message)
		}

		rich := Normalize(err)
		logger.Error(
			"request error",
			"status", rich.Code,
			"message", rich.Message,
			"text_code", rich.TextCode,
			"path", c.Path(),
		)

		return c.Status(rich.Code).SendString(rich.Message)
	}
}

// SendToken is the terminal handler for pipelines that end by issuing a
// token (register and login).
func SendToken(c *fiber.Ctx) error {
	token, ok := TokenFromLocals(c)
	if !ok {
		return goerrors.New("no token issued for request", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal)
	}
	return c.JSON(fiber.Map{"token": token})
}
