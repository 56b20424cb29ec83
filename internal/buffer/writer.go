package buffer

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"

	"github.com/pgwire/pgwire/internal/types"
)

// Writer encodes frontend (client-to-server) pgwire messages onto an
// io.Writer. Grounded on the teacher's pkg/buffer.Writer, flipped to start
// frames with a types.ClientMessage tag instead of a ServerMessage tag.
type Writer struct {
	io.Writer
	logger *slog.Logger
	frame  bytes.Buffer
	putbuf [64]byte
	err    error
}

// NewWriter constructs a Writer wrapping the given io.Writer.
func NewWriter(logger *slog.Logger, writer io.Writer) *Writer {
	return &Writer{Writer: writer, logger: logger}
}

// Start begins a new message of the given client-to-server type. The
// startup-phase messages (StartupMessage, SSLRequest, CancelRequest) carry
// no type byte at all and are written directly by the handshake/transport
// code instead of through a Writer.
func (w *Writer) Start(t types.ClientMessage) {
	w.frame.Reset()
	w.err = nil
	w.putbuf[0] = byte(t)
	w.frame.Write(w.putbuf[:5])
}

// AddByte appends a single byte to the current frame.
func (w *Writer) AddByte(b byte) {
	w.frame.WriteByte(b)
}

// AddInt16 appends a big-endian int16 to the current frame.
func (w *Writer) AddInt16(v int16) {
	binary.BigEndian.PutUint16(w.putbuf[:2], uint16(v))
	w.frame.Write(w.putbuf[:2])
}

// AddInt32 appends a big-endian int32 to the current frame.
func (w *Writer) AddInt32(v int32) {
	binary.BigEndian.PutUint32(w.putbuf[:4], uint32(v))
	w.frame.Write(w.putbuf[:4])
}

// AddUint32 appends a big-endian uint32 to the current frame.
func (w *Writer) AddUint32(v uint32) {
	binary.BigEndian.PutUint32(w.putbuf[:4], v)
	w.frame.Write(w.putbuf[:4])
}

// AddBytes appends a raw byte slice to the current frame, with no length
// prefix or terminator of its own.
func (w *Writer) AddBytes(b []byte) {
	w.frame.Write(b)
}

// AddString appends a raw string to the current frame, with no length
// prefix or terminator of its own.
func (w *Writer) AddString(s string) {
	w.frame.WriteString(s)
}

// AddNullTerminatedString appends s followed by a NUL byte.
func (w *Writer) AddNullTerminatedString(s string) {
	w.frame.WriteString(s)
	w.frame.WriteByte(0)
}

// Error returns the first error encountered while building the frame, if
// any.
func (w *Writer) Error() error {
	return w.err
}

// Bytes returns the frame built so far, header included.
func (w *Writer) Bytes() []byte {
	return w.frame.Bytes()
}

// Reset discards the current frame.
func (w *Writer) Reset() {
	w.frame.Reset()
}

// End patches the frame's length prefix and flushes it to the underlying
// io.Writer.
func (w *Writer) End() error {
	if w.err != nil {
		return w.err
	}

	b := w.frame.Bytes()
	binary.BigEndian.PutUint32(b[1:5], uint32(len(b)-1))

	if w.logger != nil {
		w.logger.Debug("write message", "type", types.ClientMessage(b[0]).String(), "length", len(b))
	}

	_, err := w.Writer.Write(b)
	return err
}
