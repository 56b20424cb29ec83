package buffer

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/pgwire/pgwire/codes"
	"github.com/pgwire/pgwire/pgerror"
)

// ErrMissingNulTerminator is thrown when no NUL terminator is found when
// interpreting a message property as a string.
var ErrMissingNulTerminator = errors.New("NUL terminator not found")

// NewMissingNulTerminator constructs a protocol error wrapping
// ErrMissingNulTerminator with additional metadata.
func NewMissingNulTerminator() error {
	err := pgerror.WithSeverity(pgerror.WithCode(ErrMissingNulTerminator, codes.DataCorrupted), "FATAL")
	return pgerror.Flatten(pgerror.KindProtocol, err)
}

// ErrInsufficientData is thrown when there is insufficient data available
// inside the given message to unmarshal into a given type.
var ErrInsufficientData = errors.New("insufficient data")

// NewInsufficientData constructs a protocol error wrapping
// ErrInsufficientData with additional metadata.
func NewInsufficientData(length int) error {
	err := fmt.Errorf("length: %d %w", length, ErrInsufficientData)
	err = pgerror.WithSeverity(pgerror.WithCode(err, codes.DataCorrupted), "FATAL")
	return pgerror.Flatten(pgerror.KindProtocol, err)
}

// ErrMessageSizeExceeded is thrown when the maximum message size is exceeded.
var ErrMessageSizeExceeded = MessageSizeExceeded{Message: "maximum message size exceeded"}

// MessageSizeExceeded indicates that a message length prefix exceeded the
// configured maximum message size.
type MessageSizeExceeded struct {
	Message string
	Size    int
	Max     int
}

func (err MessageSizeExceeded) Error() string {
	return err.Message
}

func (err MessageSizeExceeded) Is(target error) bool {
	return reflect.TypeOf(target) == reflect.TypeOf(err)
}

// NewMessageSizeExceeded constructs a protocol error wrapping
// MessageSizeExceeded with additional metadata.
func NewMessageSizeExceeded(max, size int) error {
	msg := MessageSizeExceeded{
		Message: fmt.Sprintf("message size %d, bigger than maximum allowed message size %d", size, max),
		Size:    size,
		Max:     max,
	}
	err := pgerror.WithSeverity(pgerror.WithCode(msg, codes.ProgramLimitExceeded), "ERROR")
	return pgerror.Flatten(pgerror.KindProtocol, err)
}

// UnwrapMessageSizeExceeded attempts to unwrap err as MessageSizeExceeded. A
// boolean is returned indicating whether the error contained one.
func UnwrapMessageSizeExceeded(err error) (result MessageSizeExceeded, _ bool) {
	return result, errors.As(err, &result)
}
