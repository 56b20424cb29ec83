package buffer

// PrepareType identifies whether a Describe/Close targets a prepared
// statement or a portal.
type PrepareType byte

const (
	PrepareStatement PrepareType = 'S'
	PreparePortal    PrepareType = 'P'
)

// MaxPreparedStatementArgs is the largest parameter count the wire protocol
// can carry in a Bind message's int16 count field.
const MaxPreparedStatementArgs = 1<<16 - 1
