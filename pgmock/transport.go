package pgmock

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"io"
)

// Transport implements transport.Transport over an in-memory scripted
// response stream, letting tests drive Conn without a real socket. Reads
// are served from Script; writes are captured in Sent for assertions.
type Transport struct {
	Script *bytes.Reader
	Sent   bytes.Buffer
	eof    bool
}

// NewTransport constructs a Transport that serves script as the backend's
// byte stream.
func NewTransport(script []byte) *Transport {
	return &Transport{Script: bytes.NewReader(script)}
}

// Connect is a no-op: the scripted stream is already available.
func (t *Transport) Connect(ctx context.Context, host string, port uint16) error {
	return nil
}

// Read serves bytes from Script.
func (t *Transport) Read(p []byte) (int, error) {
	n, err := t.Script.Read(p)
	if errors.Is(err, io.EOF) {
		t.eof = true
	}
	return n, err
}

// Write captures bytes into Sent.
func (t *Transport) Write(p []byte) (int, error) {
	return t.Sent.Write(p)
}

// Close is a no-op.
func (t *Transport) Close() error {
	return nil
}

// UpgradeTLS is unsupported over a scripted in-memory stream.
func (t *Transport) UpgradeTLS(cfg *tls.Config) error {
	return errors.New("pgmock: UpgradeTLS is not supported by the scripted transport")
}

// ChannelBindingFingerprint always reports unavailable.
func (t *Transport) ChannelBindingFingerprint() ([32]byte, bool) {
	return [32]byte{}, false
}

// RemoteClosed reports whether a Read has returned io.EOF from Script.
func (t *Transport) RemoteClosed() bool {
	return t.eof
}
