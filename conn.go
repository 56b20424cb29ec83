// Package pgwire implements a native Go client for the PostgreSQL v3
// frontend/backend wire protocol: encrypted transport negotiation,
// SCRAM-SHA-256(-PLUS) authentication, the extended query protocol, and
// lossless typed value conversion.
package pgwire

import (
	"bufio"
	"context"
	"log/slog"
	"sync"

	"github.com/pgwire/pgwire/internal/buffer"
	"github.com/pgwire/pgwire/internal/types"
	"github.com/pgwire/pgwire/pgerror"
	"github.com/pgwire/pgwire/transport"
)

// Conn is a single, non-pipelined connection to a Postgres backend. A Conn
// is not safe for concurrent use: the extended query protocol is strictly
// sequential, and callers needing concurrency should open multiple Conns.
type Conn struct {
	cfg       *Config
	logger    *slog.Logger
	transport transport.Transport
	reader    *buffer.Reader
	writer    *buffer.Writer
	names     nameGenerator

	mu                 sync.Mutex
	parameterStatuses  map[string]string
	backendPID         int32
	backendSecretKey   int32
	serverStatus       types.ServerStatus
	channelBindingUsed bool
	closed             bool
}

// Connect dials, negotiates TLS, authenticates, and returns a ready-to-use
// Conn, applying opts over a zero Config.
func Connect(ctx context.Context, host string, port uint16, opts ...OptionFn) (*Conn, error) {
	cfg := &Config{Host: host, Port: port}
	for _, opt := range opts {
		opt(cfg)
	}
	return ConnectConfig(ctx, cfg)
}

// ConnectConfig dials, negotiates TLS, authenticates, and returns a
// ready-to-use Conn using cfg as-is.
func ConnectConfig(ctx context.Context, cfg *Config) (*Conn, error) {
	return ConnectTransport(ctx, &transport.TCP{}, cfg)
}

// ConnectTransport is ConnectConfig over a caller-supplied Transport,
// letting tests (see pgmock) and alternative dial strategies (e.g. a Unix
// socket or a proxy) drive the same handshake/auth/startup sequence without
// going through transport.TCP.
func ConnectTransport(ctx context.Context, tr transport.Transport, cfg *Config) (*Conn, error) {
	if cfg.Port == 0 {
		cfg.Port = 5432
	}

	c := &Conn{
		cfg:               cfg,
		logger:            cfg.logger(),
		transport:         tr,
		parameterStatuses: make(map[string]string),
	}

	if err := c.transport.Connect(ctx, cfg.Host, cfg.Port); err != nil {
		return nil, pgerror.Wrap(pgerror.KindSocket, err)
	}

	if cfg.TLSConfig != nil {
		if err := c.negotiateTLS(cfg.TLSConfig); err != nil {
			_ = c.transport.Close()
			return nil, err
		}
	}

	c.reader = buffer.NewReader(c.logger, bufio.NewReader(c.transport))
	c.writer = buffer.NewWriter(c.logger, c.transport)

	if err := c.startup(ctx); err != nil {
		_ = c.transport.Close()
		return nil, err
	}

	return c, nil
}

// Close terminates the connection. It always attempts to send a Terminate
// message first, ignoring any failure to write it, then closes the transport.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.writer.Start(types.ClientTerminate)
	_ = c.writer.End()
	return c.transport.Close()
}

// ParameterStatus returns the last reported value of a backend run-time
// parameter (e.g. "server_version", "TimeZone"), and whether it has ever
// been reported.
func (c *Conn) ParameterStatus(name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.parameterStatuses[name]
	return v, ok
}

// BackendKeyData returns the process ID and secret key the backend issued
// for this connection, used to construct a CancelRequest on a second
// connection.
func (c *Conn) BackendKeyData() (pid, secretKey int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backendPID, c.backendSecretKey
}

// ChannelBindingUsed reports whether SCRAM channel binding (PLUS) was
// actually used for this connection's authentication.
func (c *Conn) ChannelBindingUsed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channelBindingUsed
}

func (c *Conn) setParameterStatus(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parameterStatuses[name] = value
}

func (c *Conn) setBackendKeyData(pid, secretKey int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backendPID = pid
	c.backendSecretKey = secretKey
}

func (c *Conn) setServerStatus(status types.ServerStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.serverStatus = status
}

func (c *Conn) setChannelBindingUsed(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channelBindingUsed = v
}

// checkOpen fails fast with KindConnectionClosed instead of attempting wire
// I/O once Close has been called.
func (c *Conn) checkOpen() error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return pgerror.New(pgerror.KindConnectionClosed, "connection is closed")
	}
	return nil
}

// errUnexpectedMessage builds a protocol error for a message tag that
// shouldn't appear at this point in the exchange.
func errUnexpectedMessage(phase string, tag types.ServerMessage) error {
	return pgerror.Newf(pgerror.KindProtocol, "unexpected %s message during %s", tag.String(), phase)
}
