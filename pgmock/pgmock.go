// Package pgmock provides canned backend message sequences over in-memory
// pipes, for exercising Conn without a real network socket. Grounded on the
// teacher's pkg/mock/buffer.go, which wraps buffer.Writer/buffer.Reader the
// same way to emit canned messages for its own handler tests.
package pgmock

import (
	"bytes"
	"encoding/binary"
)

// Server accumulates a scripted sequence of backend messages that a test can
// feed to a client-side Conn through an io.Reader. What the client writes
// back is captured by Transport.Sent, not by Server.
type Server struct {
	buf bytes.Buffer
}

// NewServer constructs an empty scripted message sequence.
func NewServer() *Server {
	return &Server{}
}

// Bytes returns the accumulated message stream.
func (s *Server) Bytes() []byte {
	return s.buf.Bytes()
}

// Message appends one length-prefixed, tagged message to the stream.
func (s *Server) Message(tag byte, body []byte) *Server {
	s.buf.WriteByte(tag)
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(4+len(body)))
	s.buf.Write(length[:])
	s.buf.Write(body)
	return s
}

// AuthenticationOK appends an AuthenticationOk message.
func (s *Server) AuthenticationOK() *Server {
	return s.Message('R', int32Body(0))
}

// ParameterStatus appends a ParameterStatus message.
func (s *Server) ParameterStatus(name, value string) *Server {
	var body bytes.Buffer
	body.WriteString(name)
	body.WriteByte(0)
	body.WriteString(value)
	body.WriteByte(0)
	return s.Message('S', body.Bytes())
}

// BackendKeyData appends a BackendKeyData message.
func (s *Server) BackendKeyData(pid, secret int32) *Server {
	var body [8]byte
	binary.BigEndian.PutUint32(body[0:4], uint32(pid))
	binary.BigEndian.PutUint32(body[4:8], uint32(secret))
	return s.Message('K', body[:])
}

// ReadyForQuery appends a ReadyForQuery message in the idle state.
func (s *Server) ReadyForQuery() *Server {
	return s.Message('Z', []byte{'I'})
}

// ErrorResponse appends an ErrorResponse message built from field:value
// pairs (e.g. "S", "ERROR", "C", "42601", "M", "syntax error").
func (s *Server) ErrorResponse(fields ...string) *Server {
	var body bytes.Buffer
	for i := 0; i+1 < len(fields); i += 2 {
		body.WriteByte(fields[i][0])
		body.WriteString(fields[i+1])
		body.WriteByte(0)
	}
	body.WriteByte(0)
	return s.Message('E', body.Bytes())
}

// ParseComplete appends a ParseComplete message.
func (s *Server) ParseComplete() *Server {
	return s.Message('1', nil)
}

// BindComplete appends a BindComplete message.
func (s *Server) BindComplete() *Server {
	return s.Message('2', nil)
}

// NoData appends a NoData message.
func (s *Server) NoData() *Server {
	return s.Message('n', nil)
}

// ParameterDescription appends a ParameterDescription message listing the
// given parameter type OIDs.
func (s *Server) ParameterDescription(oids ...uint32) *Server {
	var body bytes.Buffer
	var count [2]byte
	binary.BigEndian.PutUint16(count[:], uint16(len(oids)))
	body.Write(count[:])
	for _, o := range oids {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], o)
		body.Write(b[:])
	}
	return s.Message('t', body.Bytes())
}

// Column describes one RowDescription column for the RowDescription helper.
type Column struct {
	Name string
	OID  uint32
}

// RowDescription appends a RowDescription message.
func (s *Server) RowDescription(cols ...Column) *Server {
	var body bytes.Buffer
	var count [2]byte
	binary.BigEndian.PutUint16(count[:], uint16(len(cols)))
	body.Write(count[:])

	for _, col := range cols {
		body.WriteString(col.Name)
		body.WriteByte(0)

		var rest [18]byte
		binary.BigEndian.PutUint32(rest[6:10], col.OID)
		binary.BigEndian.PutUint16(rest[10:12], 0xFFFF)
		body.Write(rest[:])
	}
	return s.Message('T', body.Bytes())
}

// DataRow appends a DataRow message. A nil entry in values encodes SQL NULL.
func (s *Server) DataRow(values ...[]byte) *Server {
	var body bytes.Buffer
	var count [2]byte
	binary.BigEndian.PutUint16(count[:], uint16(len(values)))
	body.Write(count[:])

	for _, v := range values {
		var length [4]byte
		if v == nil {
			binary.BigEndian.PutUint32(length[:], 0xFFFFFFFF)
			body.Write(length[:])
			continue
		}
		binary.BigEndian.PutUint32(length[:], uint32(len(v)))
		body.Write(length[:])
		body.Write(v)
	}
	return s.Message('D', body.Bytes())
}

// CommandComplete appends a CommandComplete message with the given tag
// (e.g. "SELECT 3").
func (s *Server) CommandComplete(tag string) *Server {
	var body bytes.Buffer
	body.WriteString(tag)
	body.WriteByte(0)
	return s.Message('C', body.Bytes())
}

// CloseComplete appends a CloseComplete message.
func (s *Server) CloseComplete() *Server {
	return s.Message('3', nil)
}

func int32Body(v int32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	return b[:]
}
