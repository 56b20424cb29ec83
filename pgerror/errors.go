// Package pgerror implements the single sum-typed error this module returns
// from every fallible operation (spec §7). An Error carries a Kind plus
// whatever payload that Kind warrants — a parsed ErrorResponse for KindServer,
// a column index for KindValueConversion, and so on.
//
// Internally, lower layers build up context with the WithXxx decorators
// (mirroring the teacher's errors package) before the outermost caller
// flattens the chain into an *Error with Flatten.
package pgerror

import (
	"fmt"

	"github.com/pgwire/pgwire/codes"
)

// Source identifies where an error originated, for diagnostics only.
type Source struct {
	File     string
	Line     int32
	Function string
}

// Error is the flattened representation returned to callers of this module.
type Error struct {
	Kind    Kind
	Message string
	cause   error

	// Server-side fields, populated from a backend ErrorResponse (KindServer).
	Severity       string
	Code           codes.Code
	Detail         string
	Hint           string
	Position       int32
	ConstraintName string
	Source         *Source

	// Column identifies the offending column for KindValueConversion and
	// KindValueIsNull.
	Column int
	// TargetType names the Go type a value conversion was attempted into,
	// for KindValueConversion.
	TargetType string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause, if any, so callers can errors.Is/As
// through to a net.Error or similar.
func (e *Error) Unwrap() error {
	return e.cause
}

// New constructs an Error of the given kind with a plain message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf constructs an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error of the given kind around a lower-level cause.
func Wrap(kind Kind, cause error) *Error {
	if cause == nil {
		return nil
	}
	if err, ok := cause.(*Error); ok {
		return err
	}
	return &Error{Kind: kind, Message: cause.Error(), cause: cause}
}

// Flatten walks a WithXxx decorator chain built around cause and produces the
// normalized *Error a caller receives. It mirrors the teacher's
// errors.Flatten, used here on decorated local errors rather than on an
// outbound ErrorResponse.
func Flatten(kind Kind, cause error) *Error {
	if cause == nil {
		return nil
	}
	if err, ok := cause.(*Error); ok {
		return err
	}

	return &Error{
		Kind:           kind,
		Message:        cause.Error(),
		cause:          cause,
		Severity:       GetSeverity(cause),
		Code:           GetCode(cause),
		Detail:         GetDetail(cause),
		Hint:           GetHint(cause),
		ConstraintName: GetConstraintName(cause),
		Source:         GetSource(cause),
	}
}
