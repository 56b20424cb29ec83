package pgwire

import (
	"crypto/tls"
	"log/slog"
	"time"

	"github.com/pgwire/pgwire/scram"
)

// OptionFn mutates a Config being built up for Connect. Grounded on the
// teacher's options.go functional-options pattern.
type OptionFn func(*Config)

// WithDatabase sets the database to connect to.
func WithDatabase(name string) OptionFn {
	return func(c *Config) { c.Database = name }
}

// WithCredentials sets the username and password used during authentication.
// It does not itself select a CredentialKind: pair it with WithCredential
// when the server is known to require AuthenticationCleartextPassword or
// AuthenticationMD5Password, or rely on Password alone for a SCRAM exchange,
// which needs no credential gating (see Config.Credential).
func WithCredentials(user, password string) OptionFn {
	return func(c *Config) {
		c.User = user
		c.Password = password
	}
}

// WithCredential sets the credential kind this Config is prepared to answer
// an AuthenticationCleartextPassword or AuthenticationMD5Password challenge
// with, and the secret to answer it with.
func WithCredential(kind CredentialKind, secret string) OptionFn {
	return func(c *Config) { c.Credential = Credential{Kind: kind, Secret: secret} }
}

// WithApplicationName sets the application_name startup parameter reported
// to the backend, surfaced in pg_stat_activity.
func WithApplicationName(name string) OptionFn {
	return func(c *Config) { c.ApplicationName = name }
}

// WithSocketTimeout stores d in Config.SocketTimeout. No deadline is applied
// to socket reads or writes from this value.
func WithSocketTimeout(d time.Duration) OptionFn {
	return func(c *Config) { c.SocketTimeout = d }
}

// WithTLSConfig enables TLS and uses cfg for the handshake. Passing nil
// disables TLS (the connection never issues an SSLRequest).
func WithTLSConfig(cfg *tls.Config) OptionFn {
	return func(c *Config) { c.TLSConfig = cfg }
}

// WithChannelBindingPolicy sets how strictly SCRAM channel binding is
// enforced.
func WithChannelBindingPolicy(policy scram.ChannelBindingPolicy) OptionFn {
	return func(c *Config) { c.ChannelBindingPolicy = policy }
}

// WithLogger installs logger as the destination for this connection's
// structured diagnostics.
func WithLogger(logger *slog.Logger) OptionFn {
	return func(c *Config) { c.Logger = logger }
}
