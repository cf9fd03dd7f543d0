package ucommon

import (
	"errors"
	"log/slog"
	"os"
	"sync/atomic"

	ulog "github.com/aberaud/ucommon/internal/log"
)

// Contract violations carried by the panics raised in this package.
var (
	ErrNotHeld     = errors.New("release of unheld lock")
	ErrOverRelease = errors.New("release of unretained object")
	ErrMaxSharing  = errors.New("maximum sharing exceeded")
	ErrExhausted   = errors.New("allocator exhausted")
	ErrBadState    = errors.New("invalid state")
)

// ContractError is the panic value raised when a primitive detects that its
// caller broke the locking or ownership protocol. It is never returned.
type ContractError struct {
	Component string
	Err       error
}

func (e *ContractError) Error() string {
	return "ucommon: " + e.Component + ": " + e.Err.Error()
}

func (e *ContractError) Unwrap() error { return e.Err }

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(ulog.CreateHandler(os.Stderr, "warn", ulog.TextFormat)))
}

// Logger returns the logger used by the package.
func Logger() *slog.Logger {
	return logger.Load()
}

// SetLogger replaces the package logger. A nil logger discards everything.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = ulog.Discard()
	}
	logger.Store(l)
}

// fatal reports a broken invariant and panics. Continuing would operate on
// corrupted state, so callers must not recover from it in production code.
func fatal(component string, err error, attrs ...any) {
	args := append([]any{slog.String("component", component)}, attrs...)
	Logger().Error(err.Error(), args...)
	panic(&ContractError{Component: component, Err: err})
}
