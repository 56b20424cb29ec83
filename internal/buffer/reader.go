package buffer

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"
	"unsafe"

	"github.com/pgwire/pgwire/internal/types"
)

// BufferedReader is the subset of *bufio.Reader this package depends on,
// allowing callers to plug in their own buffering.
type BufferedReader interface {
	io.Reader
	Peek(n int) ([]byte, error)
	ReadByte() (byte, error)
	Discard(n int) (discarded int, err error)
}

// DefaultMaxMessageSize caps a single backend message body, guarding against
// a corrupted or malicious length prefix driving an unbounded allocation.
const DefaultMaxMessageSize = 64 * 1024 * 1024

// Reader decodes backend (server-to-client) pgwire messages off of a
// buffered byte stream. Grounded on the teacher's pkg/buffer.Reader, with
// the direction the tags are interpreted in flipped: this Reader decodes
// types.ServerMessage frames, whereas the teacher's decodes client frames.
type Reader struct {
	logger         *slog.Logger
	Buffer         BufferedReader
	Msg            []byte
	MaxMessageSize int
	header         [4]byte
}

// NewReader constructs a Reader around the given buffered byte stream.
func NewReader(logger *slog.Logger, reader BufferedReader) *Reader {
	return &Reader{
		logger:         logger,
		Buffer:         reader,
		MaxMessageSize: DefaultMaxMessageSize,
	}
}

func (r *Reader) reset(size int) []byte {
	if cap(r.Msg) >= size {
		r.Msg = r.Msg[:size]
	} else {
		r.Msg = make([]byte, size)
	}
	return r.Msg
}

// ReadTypedMsg reads a length-prefixed, type-tagged message off the stream
// and returns its tag and body. The body is only valid until the next call
// to ReadTypedMsg.
func (r *Reader) ReadTypedMsg() (types.ServerMessage, []byte, error) {
	tag, err := r.Buffer.ReadByte()
	if err != nil {
		return 0, nil, err
	}

	msg, err := r.readUntypedMsg()
	if err != nil {
		return 0, nil, err
	}

	t := types.ServerMessage(tag)
	if r.logger != nil {
		r.logger.Debug("read message", "type", t.String(), "length", len(msg))
	}
	return t, msg, nil
}

// ReadMsgSize reads a message's big-endian int32 length prefix, which
// includes itself but not the preceding type byte.
func (r *Reader) ReadMsgSize() (int, error) {
	if _, err := io.ReadFull(r.Buffer, r.header[:4]); err != nil {
		return 0, err
	}
	size := int(binary.BigEndian.Uint32(r.header[:4]))
	if size < 4 {
		return 0, NewInsufficientData(size)
	}
	return size - 4, nil
}

func (r *Reader) readUntypedMsg() ([]byte, error) {
	size, err := r.ReadMsgSize()
	if err != nil {
		return nil, err
	}
	if size > r.MaxMessageSize {
		return nil, NewMessageSizeExceeded(r.MaxMessageSize, size)
	}

	msg := r.reset(size)
	if _, err := io.ReadFull(r.Buffer, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Slurp discards n bytes, used to skip a message body the caller isn't
// interested in decoding.
func (r *Reader) Slurp(n int) error {
	_, err := r.Buffer.Discard(n)
	return err
}

// GetString consumes a NUL-terminated string off the front of msg, returning
// the remaining bytes of msg and the string. The string aliases msg's
// backing array via unsafe.Pointer, matching the teacher's zero-copy
// GetString — callers must not retain it past the next ReadTypedMsg.
func GetString(msg []byte) (rest []byte, s string, err error) {
	i := bytes.IndexByte(msg, 0)
	if i < 0 {
		return nil, "", NewMissingNulTerminator()
	}
	return msg[i+1:], unsafeBytesToString(msg[:i]), nil
}

func unsafeBytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return *(*string)(unsafe.Pointer(&b))
}

// GetPrepareType consumes a single PrepareType byte off the front of msg.
func GetPrepareType(msg []byte) (rest []byte, t PrepareType, err error) {
	if len(msg) < 1 {
		return nil, 0, NewInsufficientData(len(msg))
	}
	return msg[1:], PrepareType(msg[0]), nil
}

// GetBytes consumes n bytes off the front of msg. n == -1 represents a SQL
// NULL and returns a nil slice with no error.
func GetBytes(msg []byte, n int32) (rest []byte, b []byte, err error) {
	if n == -1 {
		return msg, nil, nil
	}
	if n < 0 || int(n) > len(msg) {
		return nil, nil, NewInsufficientData(len(msg))
	}
	return msg[n:], msg[:n:n], nil
}

// GetUint16 consumes a big-endian uint16 off the front of msg.
func GetUint16(msg []byte) (rest []byte, v uint16, err error) {
	if len(msg) < 2 {
		return nil, 0, NewInsufficientData(len(msg))
	}
	return msg[2:], binary.BigEndian.Uint16(msg[:2]), nil
}

// GetUint32 consumes a big-endian uint32 off the front of msg.
func GetUint32(msg []byte) (rest []byte, v uint32, err error) {
	if len(msg) < 4 {
		return nil, 0, NewInsufficientData(len(msg))
	}
	return msg[4:], binary.BigEndian.Uint32(msg[:4]), nil
}

// GetInt32 consumes a big-endian int32 off the front of msg.
func GetInt32(msg []byte) (rest []byte, v int32, err error) {
	rest, u, err := GetUint32(msg)
	return rest, int32(u), err
}
