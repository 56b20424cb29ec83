// Package scram implements the client side of SCRAM-SHA-256 and
// SCRAM-SHA-256-PLUS (RFC 5802, RFC 7677) authentication exchanges, with
// optional tls-server-end-point channel binding (RFC 5929).
//
// Grounded on the HMAC/PBKDF2 exchange shape in
// JeelKantaria-db-bouncer/internal/pool/scram.go and the mechanism
// negotiation / SASLprep handling in pgx's vendored auth_scram.go.
package scram

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/secure/precis"
)

// MechanismSHA256 and MechanismSHA256Plus are the SASL mechanism names the
// backend advertises in its AuthenticationSASL message.
const (
	MechanismSHA256     = "SCRAM-SHA-256"
	MechanismSHA256Plus = "SCRAM-SHA-256-PLUS"
)

// ChannelBindingPolicy controls whether a Client insists on, prefers, or
// refuses tls-server-end-point channel binding.
type ChannelBindingPolicy int

const (
	// ChannelBindingPrefer uses SCRAM-SHA-256-PLUS when a fingerprint is
	// available and the server advertises the mechanism, falling back to
	// plain SCRAM-SHA-256 otherwise.
	ChannelBindingPrefer ChannelBindingPolicy = iota
	// ChannelBindingDisable never attempts channel binding, even when the
	// transport could supply a fingerprint.
	ChannelBindingDisable
	// ChannelBindingRequire fails the handshake rather than proceed without
	// channel binding.
	ChannelBindingRequire
)

const clientNonceLength = 24

// Client drives one SCRAM authentication exchange. A new Client must be
// constructed per connection attempt; it is not reusable.
type Client struct {
	username string
	password []byte

	mechanism       string
	channelBound    bool
	cbFingerprint   [32]byte
	gs2Header       string
	clientNonce     string
	serverNonce     string
	salt            []byte
	iterations      int
	clientFirstBare string
	serverFirstMsg  string
	saltedPassword  []byte
	authMessage     string
}

// NewClient selects the strongest mechanism the server advertised compatible
// with policy and the transport's channel-binding capability, and prepares
// the client-first message.
//
// cbFingerprint is the transport's tls-server-end-point fingerprint (SHA-256
// of the peer leaf certificate's DER encoding) and cbAvailable reports
// whether the transport is even TLS-backed.
func NewClient(serverMechanisms []string, username, password string, policy ChannelBindingPolicy, cbFingerprint [32]byte, cbAvailable bool) (*Client, error) {
	mechanism, channelBound, err := selectMechanism(serverMechanisms, policy, cbAvailable)
	if err != nil {
		return nil, err
	}

	nonce, err := generateNonce()
	if err != nil {
		return nil, fmt.Errorf("scram: generating client nonce: %w", err)
	}

	c := &Client{
		username:     saslPrep(username),
		password:     []byte(saslPrep(password)),
		mechanism:    mechanism,
		channelBound: channelBound,
		clientNonce:  nonce,
	}

	switch {
	case channelBound:
		c.gs2Header = "p=tls-server-end-point,,"
	default:
		// The "n,," header asserts the client does not believe the server
		// supports channel binding (or policy forbids it); "y,," would
		// assert the client saw and chose not to use a supported mechanism.
		// We always use "n,," because a client that never advertised
		// PLUS has no basis to claim "y".
		c.gs2Header = "n,,"
	}

	// The username is left empty in the bare client-first-message: the
	// backend already knows who is authenticating from the StartupMessage.
	c.clientFirstBare = fmt.Sprintf("n=,r=%s", c.clientNonce)

	c.cbFingerprint = cbFingerprint
	return c, nil
}

func selectMechanism(serverMechanisms []string, policy ChannelBindingPolicy, cbAvailable bool) (mechanism string, channelBound bool, err error) {
	hasPlus := contains(serverMechanisms, MechanismSHA256Plus)
	hasPlain := contains(serverMechanisms, MechanismSHA256)

	switch policy {
	case ChannelBindingRequire:
		if !cbAvailable {
			return "", false, fmt.Errorf("scram: channel binding required but transport cannot supply a fingerprint")
		}
		if !hasPlus {
			return "", false, fmt.Errorf("scram: channel binding required but server does not advertise %s", MechanismSHA256Plus)
		}
		return MechanismSHA256Plus, true, nil
	case ChannelBindingPrefer:
		if cbAvailable && hasPlus {
			return MechanismSHA256Plus, true, nil
		}
		if hasPlain {
			return MechanismSHA256, false, nil
		}
		return "", false, fmt.Errorf("scram: server advertises no supported SCRAM mechanism")
	default: // ChannelBindingDisable
		if hasPlain {
			return MechanismSHA256, false, nil
		}
		return "", false, fmt.Errorf("scram: server advertises no supported SCRAM mechanism")
	}
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func generateNonce() (string, error) {
	buf := make([]byte, clientNonceLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawStdEncoding.EncodeToString(buf), nil
}

// saslPrep normalizes s per RFC 8265's OpaqueString profile. PostgreSQL
// accepts passwords that are not valid OpaqueString input, so on rejection
// the raw bytes of s are used unchanged, matching pgx's auth_scram.go.
func saslPrep(s string) string {
	prepped, err := precis.OpaqueString.String(s)
	if err != nil {
		return s
	}
	return prepped
}

// ClientFirstMessage returns the bytes to send as the SASLInitialResponse
// body, consisting of the GS2 header followed by the client-first-message-bare.
func (c *Client) ClientFirstMessage() []byte {
	return []byte(c.gs2Header + c.clientFirstBare)
}

// Mechanism returns the SASL mechanism name selected for this exchange.
func (c *Client) Mechanism() string {
	return c.mechanism
}

// ChannelBound reports whether this exchange is using channel binding.
func (c *Client) ChannelBound() bool {
	return c.channelBound
}

var errInvalidServerFirst = fmt.Errorf("scram: malformed server-first-message")

// HandleServerFirstMessage parses the server-first-message and computes the
// client-final-message to send as a SASLResponse body.
func (c *Client) HandleServerFirstMessage(serverFirst []byte) ([]byte, error) {
	c.serverFirstMsg = string(serverFirst)

	attrs, err := parseAttributes(c.serverFirstMsg)
	if err != nil {
		return nil, err
	}

	c.serverNonce = attrs["r"]
	if !strings.HasPrefix(c.serverNonce, c.clientNonce) {
		return nil, fmt.Errorf("scram: server nonce %q does not extend client nonce %q", c.serverNonce, c.clientNonce)
	}

	salt, err := base64.StdEncoding.DecodeString(attrs["s"])
	if err != nil {
		return nil, fmt.Errorf("scram: decoding salt: %w", err)
	}
	c.salt = salt

	const minIterations = 4096

	iterations, err := strconv.Atoi(attrs["i"])
	if err != nil || iterations < minIterations {
		return nil, fmt.Errorf("scram: iteration count %q below the required floor of %d", attrs["i"], minIterations)
	}
	c.iterations = iterations

	c.saltedPassword = pbkdf2.Key(c.password, c.salt, c.iterations, sha256.Size, sha256.New)

	channelBinding, err := c.channelBindingData()
	if err != nil {
		return nil, err
	}

	clientFinalWithoutProof := fmt.Sprintf("c=%s,r=%s", base64.StdEncoding.EncodeToString(channelBinding), c.serverNonce)

	c.authMessage = strings.Join([]string{
		c.clientFirstBare,
		c.serverFirstMsg,
		clientFinalWithoutProof,
	}, ",")

	clientKey := hmacSHA256(c.saltedPassword, []byte("Client Key"))
	storedKey := sha256Sum(clientKey)
	clientSignature := hmacSHA256(storedKey, []byte(c.authMessage))
	clientProof := xorBytes(clientKey, clientSignature)

	final := fmt.Sprintf("%s,p=%s", clientFinalWithoutProof, base64.StdEncoding.EncodeToString(clientProof))
	return []byte(final), nil
}

func (c *Client) channelBindingData() ([]byte, error) {
	if !c.channelBound {
		return []byte(c.gs2Header), nil
	}
	data := append([]byte(c.gs2Header), c.cbFingerprint[:]...)
	return data, nil
}

// HandleServerFinalMessage verifies the server's ServerSignature, completing
// mutual authentication. A non-nil error means the server could not prove
// knowledge of the shared secret and the connection must be aborted.
func (c *Client) HandleServerFinalMessage(serverFinal []byte) error {
	attrs, err := parseAttributes(string(serverFinal))
	if err != nil {
		return err
	}

	if errMsg, ok := attrs["e"]; ok {
		return fmt.Errorf("scram: server reported error: %s", errMsg)
	}

	v, ok := attrs["v"]
	if !ok {
		return fmt.Errorf("scram: malformed server-final-message: missing server signature")
	}

	gotSignature, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		return fmt.Errorf("scram: decoding server signature: %w", err)
	}

	serverKey := hmacSHA256(c.saltedPassword, []byte("Server Key"))
	wantSignature := hmacSHA256(serverKey, []byte(c.authMessage))

	if !hmac.Equal(gotSignature, wantSignature) {
		return fmt.Errorf("scram: server signature mismatch")
	}
	return nil
}

func parseAttributes(s string) (map[string]string, error) {
	attrs := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		attrs[kv[0]] = kv[1]
	}
	if len(attrs) == 0 {
		return nil, errInvalidServerFirst
	}
	return attrs, nil
}

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

func sha256Sum(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}
