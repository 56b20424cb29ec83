package transport

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
)

// TCP is the default Transport implementation, dialing a plain TCP socket
// and optionally upgrading it to TLS in place. Grounded on the same
// crypto/tls + net stdlib pieces the teacher's potentialConnUpgrade uses for
// its (server-side) TLS upgrade, mirrored here for the dialing side.
type TCP struct {
	Dialer net.Dialer

	mu          sync.Mutex
	conn        net.Conn
	tlsConn     *tls.Conn
	remoteEOF   bool
}

var _ Transport = (*TCP)(nil)

// Connect dials host:port over TCP.
func (t *TCP) Connect(ctx context.Context, host string, port uint16) error {
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))
	conn, err := t.Dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()
	return nil
}

// Read implements io.Reader over the current connection (plaintext or TLS).
func (t *TCP) Read(p []byte) (int, error) {
	n, err := t.activeConn().Read(p)
	if err != nil {
		if errors.Is(err, io.EOF) {
			t.mu.Lock()
			t.remoteEOF = true
			t.mu.Unlock()
		}
	}
	return n, err
}

// Write implements io.Writer over the current connection (plaintext or TLS).
func (t *TCP) Write(p []byte) (int, error) {
	return t.activeConn().Write(p)
}

// Close closes the current connection.
func (t *TCP) Close() error {
	return t.activeConn().Close()
}

func (t *TCP) activeConn() net.Conn {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tlsConn != nil {
		return t.tlsConn
	}
	return t.conn
}

// UpgradeTLS wraps the plaintext TCP connection in a TLS client connection
// and performs the handshake. Must be called exactly once, right after the
// server acknowledges an SSLRequest with 'S'.
func (t *TCP) UpgradeTLS(cfg *tls.Config) error {
	t.mu.Lock()
	plain := t.conn
	t.mu.Unlock()

	if plain == nil {
		return errors.New("transport: UpgradeTLS called before Connect")
	}

	// Postgres's ALPN protocol ID (RFC-registered as "postgresql") is the
	// only protocol this transport ever speaks over the upgraded connection;
	// advertise exactly that, on a clone so a caller-shared *tls.Config isn't
	// mutated out from under any other connection using it.
	if cfg == nil {
		cfg = &tls.Config{}
	} else {
		cfg = cfg.Clone()
	}
	cfg.NextProtos = []string{"postgresql"}

	tlsConn := tls.Client(plain, cfg)
	if err := tlsConn.HandshakeContext(context.Background()); err != nil {
		return err
	}

	t.mu.Lock()
	t.tlsConn = tlsConn
	t.mu.Unlock()
	return nil
}

// ChannelBindingFingerprint returns the SHA-256 digest of the peer's leaf
// certificate DER encoding, as required for tls-server-end-point channel
// binding (RFC 5929 §4.1: for certificates signed with SHA-256 or a weaker
// hash, the channel binding hash is SHA-256; this transport only ever
// negotiates modern TLS where that holds).
func (t *TCP) ChannelBindingFingerprint() ([32]byte, bool) {
	t.mu.Lock()
	tlsConn := t.tlsConn
	t.mu.Unlock()

	if tlsConn == nil {
		return [32]byte{}, false
	}

	state := tlsConn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return [32]byte{}, false
	}

	return sha256.Sum256(state.PeerCertificates[0].Raw), true
}

// RemoteClosed reports whether any Read so far has observed io.EOF.
func (t *TCP) RemoteClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remoteEOF
}
