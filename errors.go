package takibi

import "fmt"

// ErrorCode is a well-known error category.
type ErrorCode string

const (
	// ErrConfig marks invalid options or output configuration. Nothing was
	// written.
	ErrConfig ErrorCode = "ConfigError"
	// ErrInput marks an unreadable or invalid schema source.
	ErrInput ErrorCode = "InputError"
	// ErrIO marks a failed write. Files before the failing one were
	// written.
	ErrIO ErrorCode = "IOError"
	// ErrStale marks check-mode drift between generated and on-disk output.
	ErrStale ErrorCode = "StaleError"
)

// Error is returned by the generation entry points. It carries a Code and a
// free-form Context map for extra debugging data.
type Error struct {
	Message string
	Code    ErrorCode
	Context map[string]any
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("[%s] %s", e.Code, msg)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by code, so errors.Is(err, &Error{Code: ErrIO})
// works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code != "" && t.Code == e.Code && t.Message == ""
}

// NewError constructs an Error.
func NewError(msg string, opts ...func(*Error)) *Error {
	err := &Error{Message: msg}
	for _, o := range opts {
		o(err)
	}
	return err
}

// WithCode sets the error code.
func WithCode(c ErrorCode) func(*Error) {
	return func(e *Error) { e.Code = c }
}

// WithContext attaches a context map.
func WithContext(ctx map[string]any) func(*Error) {
	return func(e *Error) { e.Context = ctx }
}

// WithCause wraps an underlying error.
func WithCause(cause error) func(*Error) {
	return func(e *Error) { e.Cause = cause }
}
