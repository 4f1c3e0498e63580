package gatekeeper

import (
	"context"
	"fmt"
)

// Logger is the minimal structured logger the package needs. Arguments are
// alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// UserStore is the persistence contract the auth flows consume. Concrete
// implementations live behind this interface; see NewUsersRepository for the
// bun-backed one.
type UserStore interface {
	// GetByEmail returns the user for the given email, or a not-found rich
	// error when no such user exists.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// Register persists a new user. A duplicate email yields
	// ErrDuplicateEmail.
	Register(ctx context.Context, user *User) (*User, error)
}

// PasswordAuthenticator hashes and verifies passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// RoutePolicy is the per-route access policy read from configuration.
// Public routes skip credential checks entirely.
type RoutePolicy struct {
	Public bool
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) { d.print("[ERR]", msg, args) }
func (d defLogger) Warn(msg string, args ...any)  { d.print("[WRN]", msg, args) }
func (d defLogger) Info(msg string, args ...any)  { d.print("[INF]", msg, args) }
func (d defLogger) Debug(msg string, args ...any) { d.print("[DBG]", msg, args) }

func (defLogger) print(level, msg string, args []any) {
	if len(args) == 0 {
		fmt.Printf("%s GATE %s", level, newline(msg))
		return
	}
	fmt.Printf("%s GATE %s %v\n", level, msg, args)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
