package pgwire

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pgwire/pgwire/scram"
)

// CredentialKind identifies which AuthenticationXxx response a Config is
// prepared to answer.
type CredentialKind int

const (
	// CredentialTrust answers no AuthenticationCleartextPassword or
	// AuthenticationMD5Password request; either fails the connection.
	CredentialTrust CredentialKind = iota
	// CredentialCleartextPassword answers AuthenticationCleartextPassword
	// with the credential's secret in the clear.
	CredentialCleartextPassword
	// CredentialMD5Password answers AuthenticationMD5Password with the
	// md5-hashed PasswordMessage the backend's challenge salt requires.
	CredentialMD5Password
	// CredentialSCRAMSHA256 names the SCRAM-SHA-256(-PLUS) exchange. An
	// AuthenticationSASL request is answered with that exchange whatever the
	// configured kind is.
	CredentialSCRAMSHA256
)

// Credential pairs a CredentialKind with the secret it authorizes use of.
// Secret is unused for CredentialTrust.
type Credential struct {
	Kind   CredentialKind
	Secret string
}

// Config carries everything needed to establish and authenticate a
// connection. It is intentionally a plain record, not a builder: construct
// one directly or load it with LoadConfig.
type Config struct {
	Host            string        `yaml:"host"`
	Port            uint16        `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	ApplicationName string        `yaml:"application_name"`
	SocketTimeout   time.Duration `yaml:"socket_timeout"`

	// Credential gates the AuthenticationCleartextPassword and
	// AuthenticationMD5Password requests: each is answered only when Kind
	// matches it, and otherwise fails the connection. AuthenticationSASL is
	// answered regardless of Kind. Zero value is CredentialTrust. Password, when set, is used as the
	// Credential's Secret unless Credential.Secret is set explicitly.
	Credential Credential `yaml:"-"`

	// ChannelBindingPolicy controls whether SCRAM channel binding is
	// disabled, preferred, or required. Zero value is scram.ChannelBindingPrefer.
	ChannelBindingPolicy scram.ChannelBindingPolicy `yaml:"-"`

	// TLSConfig, when non-nil, is used for the TLS handshake after an
	// SSLRequest is acknowledged. A nil TLSConfig means the connection never
	// attempts SSLRequest at all and stays plaintext.
	TLSConfig *tls.Config `yaml:"-"`

	// Logger receives structured diagnostics for the lifetime of the
	// connection. A nil Logger installs slog.Default().
	Logger *slog.Logger `yaml:"-"`
}

// credentialSecret returns the secret to use for the configured credential:
// Credential.Secret when set, otherwise Password, for callers (LoadConfig,
// WithCredentials) that only ever set the plain Password field.
func (c *Config) credentialSecret() string {
	if c.Credential.Secret != "" {
		return c.Credential.Secret
	}
	return c.Password
}

// logger returns c.Logger, defaulting to slog.Default() if unset.
func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// LoadConfig reads a YAML configuration file from path, substituting
// ${VAR}-style references against the process environment before
// unmarshaling. Grounded on the same config-loading style as
// JeelKantaria-db-bouncer/internal/config/config.go.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pgwire: reading config %s: %w", path, err)
	}

	expanded := envPattern.ReplaceAllStringFunc(string(raw), func(ref string) string {
		name := envPattern.FindStringSubmatch(ref)[1]
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return ref
	})

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("pgwire: parsing config %s: %w", path, err)
	}
	if cfg.Port == 0 {
		cfg.Port = 5432
	}
	return &cfg, nil
}
