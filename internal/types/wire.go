package types

// Version represents a connection version presented inside the connection
// header. See: https://www.postgresql.org/docs/current/protocol-message-formats.html
type Version uint32

const (
	Version30         Version = 196608   // (3 << 16) + 0
	VersionSSLRequest Version = 80877103 // (1234 << 16) + 5679
)

// ServerStatus indicates the backend's current transaction status as carried
// in a ReadyForQuery message. 'I' if idle (not in a transaction block); 'T'
// if in a transaction block; or 'E' if in a failed transaction block
// (queries will be rejected until the block is ended).
type ServerStatus byte

const (
	ServerIdle              ServerStatus = 'I'
	ServerTransactionBlock  ServerStatus = 'T'
	ServerTransactionFailed ServerStatus = 'E'
)
