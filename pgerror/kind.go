package pgerror

// Kind classifies an Error so callers can branch on failure category without
// string-matching messages. See spec §7.
type Kind int

const (
	// KindUnknown is the zero value and never returned by this package.
	KindUnknown Kind = iota

	// KindSocket covers transport-level failures: dial refused, connection
	// reset, read/write past a deadline.
	KindSocket

	// KindSSL covers TLS negotiation failures, including a server refusing
	// an SSLRequest while the configured TLS policy requires encryption.
	KindSSL

	// KindServer wraps a backend ErrorResponse verbatim.
	KindServer

	// KindProtocol covers malformed or out-of-sequence wire traffic that the
	// backend never flagged itself: truncated frames, unexpected message
	// tags, oversized messages.
	KindProtocol

	// KindAuthentication covers SASL/SCRAM handshake failures: bad
	// credentials, nonce mismatch, server signature mismatch.
	KindAuthentication

	// KindChannelBindingRequired is returned when the configured channel
	// binding policy is "require" but the transport cannot supply a
	// channel-binding fingerprint (e.g. a plaintext connection) or the
	// server does not advertise SCRAM-SHA-256-PLUS.
	KindChannelBindingRequired

	// KindConnectionClosed is returned by operations attempted after Close
	// has been called on the connection. A failed operation does not close
	// the connection.
	KindConnectionClosed

	// KindValueConversion covers a column value that could not be decoded
	// into the requested Go representation.
	KindValueConversion

	// KindValueIsNull is returned when a caller requests a non-pointer,
	// non-Value typed accessor for a column holding SQL NULL.
	KindValueIsNull

	// KindStatementClosed is returned by operations on a Statement after
	// Close has been called.
	KindStatementClosed

	// KindCursorClosed is returned by Next on a Cursor after Close has been
	// called. An exhausted Cursor that has not been closed reports no row
	// and no error.
	KindCursorClosed

	// KindTooManyParameters is returned when a query is bound with more
	// parameters than the wire protocol's int16 count field can carry.
	KindTooManyParameters

	// KindTimeout classifies a timeout. The module applies no deadlines of
	// its own, so no operation in it returns this kind.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindSocket:
		return "socket"
	case KindSSL:
		return "ssl"
	case KindServer:
		return "server"
	case KindProtocol:
		return "protocol"
	case KindAuthentication:
		return "authentication"
	case KindChannelBindingRequired:
		return "channel_binding_required"
	case KindConnectionClosed:
		return "connection_closed"
	case KindValueConversion:
		return "value_conversion"
	case KindValueIsNull:
		return "value_is_null"
	case KindStatementClosed:
		return "statement_closed"
	case KindCursorClosed:
		return "cursor_closed"
	case KindTooManyParameters:
		return "too_many_parameters"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}
