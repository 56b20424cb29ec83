package pgerror

import (
	"errors"

	"github.com/pgwire/pgwire/codes"
)

// WithCode wraps err with a SQLSTATE code, readable back out with GetCode.
func WithCode(err error, code codes.Code) error {
	if err == nil {
		return nil
	}
	return &withCode{cause: err, code: code}
}

// GetCode unwraps err looking for a SQLSTATE code, defaulting to
// codes.Uncategorized if none was attached anywhere in the chain.
func GetCode(err error) codes.Code {
	for err != nil {
		if c, ok := err.(*withCode); ok {
			return c.code
		}
		err = errors.Unwrap(err)
	}
	return codes.Uncategorized
}

type withCode struct {
	cause error
	code  codes.Code
}

func (w *withCode) Error() string { return w.cause.Error() }
func (w *withCode) Unwrap() error { return w.cause }
