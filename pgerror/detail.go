package pgerror

import "errors"

// WithDetail wraps err with a detail string, readable back out with
// GetDetail.
func WithDetail(err error, detail string) error {
	if err == nil {
		return nil
	}
	return &withDetail{cause: err, detail: detail}
}

// GetDetail unwraps err looking for a detail string.
func GetDetail(err error) string {
	for err != nil {
		if d, ok := err.(*withDetail); ok {
			return d.detail
		}
		err = errors.Unwrap(err)
	}
	return ""
}

type withDetail struct {
	cause  error
	detail string
}

func (w *withDetail) Error() string { return w.cause.Error() }
func (w *withDetail) Unwrap() error { return w.cause }
