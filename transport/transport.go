// Package transport defines the byte-stream abstraction the connection state
// machine reads and writes through, and provides TCP as the default
// implementation. Isolating it behind an interface keeps the wire-protocol
// code testable against an in-memory pipe (see pgmock) without a real
// socket.
package transport

import (
	"context"
	"crypto/tls"
)

// Transport is the byte-stream abstraction a Conn drives the wire protocol
// over. Implementations are not required to be safe for concurrent use.
type Transport interface {
	// Connect dials host:port. It must be safe to call Read/Write only
	// after Connect returns nil.
	Connect(ctx context.Context, host string, port uint16) error

	// Read and Write satisfy io.Reader/io.Writer over the underlying
	// connection.
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)

	// Close closes the underlying connection. Calling Close concurrently
	// with Read is the only way to force a blocked Read to return, matching
	// net.Conn's contract.
	Close() error

	// UpgradeTLS replaces the underlying plaintext connection with a TLS
	// client connection, performing the handshake before returning. It must
	// only be called once, immediately after the server has acknowledged an
	// SSLRequest.
	UpgradeTLS(cfg *tls.Config) error

	// ChannelBindingFingerprint returns the SHA-256 tls-server-end-point
	// channel-binding fingerprint of the peer's leaf certificate (RFC 5929),
	// and false if the transport is not TLS-backed.
	ChannelBindingFingerprint() ([32]byte, bool)

	// RemoteClosed reports whether a Read has failed because the peer
	// closed the connection (io.EOF), as opposed to any other I/O error.
	RemoteClosed() bool
}
