// Package ferrors implements the evaluator's typed error model: a
// closed ErrorKind enum, a position-carrying error type, diagnostic
// rendering, and stack-trace printing.
package ferrors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/figscript/internal/position"
)

// ErrorKind is the closed set of symbolic error tags the core must
// emit distinctly
type ErrorKind string

const (
	UndefinedVariable      ErrorKind = "UndefinedVariable"
	Redeclaration          ErrorKind = "Redeclaration"
	VariableTypeMismatch   ErrorKind = "VariableTypeMismatch"
	ConstAssignment        ErrorKind = "ConstAssignment"
	VariableNotFound       ErrorKind = "VariableNotFound"
	ArgumentMismatch       ErrorKind = "ArgumentMismatch"
	BuiltinArgumentMismatch ErrorKind = "BuiltinArgumentMismatch"
	ArgumentTypeMismatch   ErrorKind = "ArgumentTypeMismatch"
	DefaultParameterType   ErrorKind = "DefaultParameterType"
	ReturnTypeMismatch     ErrorKind = "ReturnTypeMismatch"
	ReturnOutsideFunction  ErrorKind = "ReturnOutsideFunction"
	ConditionType          ErrorKind = "ConditionType"
	NotAFunction           ErrorKind = "NotAFunction"
	NotSupported           ErrorKind = "NotSupported"
	ValueError             ErrorKind = "ValueError"
	RuntimeError           ErrorKind = "RuntimeError"
)

// Error is a fatal, positioned evaluator error. Errors are never
// recovered within the core: they propagate to the
// top-level driver.
type Error struct {
	Kind     ErrorKind
	Message  string
	Pos      position.Position
	Stack    []string // scope names, innermost first, captured at throw time
	wrapped  error
}

// New constructs a positioned error of the given kind.
func New(kind ErrorKind, pos position.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// Wrap attaches kind/pos to an existing lower-level error (e.g. one of
// runtime's OpError or Context.Set sentinels), preserving it for
// errors.Unwrap/errors.Is.
func Wrap(kind ErrorKind, pos position.Position, err error) *Error {
	return &Error{Kind: kind, Message: err.Error(), Pos: pos, wrapped: err}
}

// WithStack attaches a captured stack trace (innermost scope first) to
// the error, returning e for chaining.
func (e *Error) WithStack(stack []string) *Error {
	e.Stack = stack
	return e
}

func (e *Error) Unwrap() error { return e.wrapped }

// Error renders "[Eve: KIND] MESSAGE at line:col".
func (e *Error) Error() string {
	return fmt.Sprintf("[Eve: %s] %s at %s", e.Kind, e.Message, e.Pos)
}

// RenderStackTrace formats the captured stack, one scope per line,
// innermost first.
func RenderStackTrace(stack []string) string {
	var b strings.Builder
	for _, name := range stack {
		b.WriteString("  at ")
		b.WriteString(name)
		b.WriteByte('\n')
	}
	return b.String()
}

// Is reports whether err is a *Error of the given kind, for use with
// errors.Is-style checks in tests.
func Is(err error, kind ErrorKind) bool {
	fe, ok := err.(*Error)
	return ok && fe.Kind == kind
}
