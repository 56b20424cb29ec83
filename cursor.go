package pgwire

import (
	"context"
	"strconv"
	"strings"

	"github.com/pgwire/pgwire/internal/buffer"
	"github.com/pgwire/pgwire/internal/types"
	"github.com/pgwire/pgwire/pgerror"
	"github.com/pgwire/pgwire/pgvalue"
)

// ExecuteOpts controls how a Statement is executed.
type ExecuteOpts struct {
	// RetrieveColumnMetadata re-describes the portal before executing,
	// needed only when the statement's result shape can vary with the
	// bound parameter values (e.g. a polymorphic function call). Most
	// statements never need this: Prepare already captured column metadata.
	RetrieveColumnMetadata bool
}

// Cursor streams the rows of one portal execution. Rows are decoded one at
// a time as Next is called, never buffered ahead of the caller's demand.
// A Cursor must be closed (or fully drained) before Execute is called again
// on the same connection.
type Cursor struct {
	conn            *Conn
	stmt            *Statement
	portal          string
	columns         []ColumnMetadata
	pendingParams   []pgvalue.Value
	retrieveColumns bool
	started         bool
	done            bool
	err             error
	rowCount        *int64
}

// RowCount returns the number of rows affected or returned by the command,
// parsed from its CommandComplete tag (e.g. "DELETE 1000" -> 1000, "SELECT 2"
// -> 2). It is nil until the Cursor is exhausted, and stays nil for commands
// whose tag carries no row count (e.g. "SET", "BEGIN").
func (cur *Cursor) RowCount() *int64 {
	return cur.rowCount
}

// parseCommandTag extracts the trailing row-count integer from a
// CommandComplete tag, if the tag's last whitespace-separated field parses
// as one ("INSERT 0 5" -> 5, "DELETE 1000" -> 1000, "SET" -> nil).
func parseCommandTag(tag string) *int64 {
	fields := strings.Fields(tag)
	if len(fields) < 2 {
		return nil
	}
	n, err := strconv.ParseInt(fields[len(fields)-1], 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// Execute binds params against s and returns a Cursor over its result rows.
// The extended-query round (Bind/Describe/Execute/Sync) is not sent to the
// wire until the first call to Next — Execute itself performs no I/O.
func (s *Statement) Execute(ctx context.Context, opts ExecuteOpts, params ...pgvalue.Value) (*Cursor, error) {
	if s.closed {
		return nil, pgerror.New(pgerror.KindStatementClosed, "statement is closed")
	}
	if err := s.conn.checkOpen(); err != nil {
		return nil, err
	}
	if len(params) > buffer.MaxPreparedStatementArgs {
		return nil, pgerror.Newf(pgerror.KindTooManyParameters, "%d bind parameters exceeds the wire protocol's limit of %d", len(params), buffer.MaxPreparedStatementArgs)
	}

	cur := &Cursor{
		conn:    s.conn,
		stmt:    s,
		portal:  s.conn.names.next("portal"),
		columns: s.columns,
	}
	cur.pendingParams = params
	cur.retrieveColumns = opts.RetrieveColumnMetadata
	return cur, nil
}

// Next advances the cursor and returns the next row. ok is false once the
// result set is exhausted; err is non-nil only on failure, in which case ok
// is also false.
func (cur *Cursor) Next(ctx context.Context) (Row, bool, error) {
	if cur.err != nil {
		return Row{}, false, cur.err
	}
	if cur.done {
		return Row{}, false, nil
	}

	c := cur.conn

	if !cur.started {
		cur.started = true
		if err := cur.start(); err != nil {
			cur.err = err
			return Row{}, false, err
		}
	}

	for {
		tag, msg, err := c.reader.ReadTypedMsg()
		if err != nil {
			cur.err = pgerror.Wrap(pgerror.KindSocket, err)
			return Row{}, false, cur.err
		}

		switch tag {
		case types.ServerDataRow:
			values, err := dataRow(cur.columns, msg)
			if err != nil {
				// A value that fails to decode is reported for this row
				// only; the cursor stays usable for the rows after it.
				if e, ok := err.(*pgerror.Error); ok && e.Kind == pgerror.KindValueConversion {
					return Row{}, false, err
				}
				cur.err = err
				return Row{}, false, err
			}
			return Row{columns: cur.columns, values: values}, true, nil

		case types.ServerCommandComplete:
			cur.done = true
			cur.rowCount = parseCommandTag(strings.TrimSuffix(string(msg), "\x00"))
			if err := c.consumeUntilReady("Execute"); err != nil {
				cur.err = err
				return Row{}, false, err
			}
			return Row{}, false, nil

		case types.ServerEmptyQuery:
			cur.done = true
			if err := c.consumeUntilReady("Execute"); err != nil {
				cur.err = err
				return Row{}, false, err
			}
			return Row{}, false, nil

		case types.ServerPortalSuspended:
			cur.done = true
			if err := c.consumeUntilReady("Execute"); err != nil {
				cur.err = err
				return Row{}, false, err
			}
			return Row{}, false, nil

		case types.ServerNoticeResponse:
			c.logNotice(msg)
			continue

		case types.ServerErrorResponse:
			cur.done = true
			cur.err = pgerror.FromErrorResponse(parseErrorFields(msg))
			_ = c.consumeUntilReady("Execute")
			return Row{}, false, cur.err

		default:
			cur.err = errUnexpectedMessage("Execute", tag)
			return Row{}, false, cur.err
		}
	}
}

func (cur *Cursor) start() error {
	c := cur.conn

	encoded := make([][]byte, len(cur.pendingParams))
	for i, p := range cur.pendingParams {
		encoded[i] = encodeParameter(p)
	}

	c.sendBind(cur.portal, cur.stmt.name, encoded)
	if cur.retrieveColumns {
		c.sendDescribe(byte(types.DescribePortal), cur.portal)
	}
	c.sendExecute(cur.portal, 0)
	c.sendSync()
	if err := c.flush(); err != nil {
		return err
	}

	tag, msg, err := c.reader.ReadTypedMsg()
	if err != nil {
		return pgerror.Wrap(pgerror.KindSocket, err)
	}
	if tag == types.ServerErrorResponse {
		_ = c.consumeUntilReady("Bind")
		return pgerror.FromErrorResponse(parseErrorFields(msg))
	}
	if tag != types.ServerBindComplete {
		return errUnexpectedMessage("Bind", tag)
	}

	if cur.retrieveColumns {
		tag, msg, err := c.reader.ReadTypedMsg()
		if err != nil {
			return pgerror.Wrap(pgerror.KindSocket, err)
		}
		switch tag {
		case types.ServerRowDescription:
			cols, err := rowDescription(msg)
			if err != nil {
				return err
			}
			cur.columns = cols
		case types.ServerNoData:
			cur.columns = nil
		case types.ServerErrorResponse:
			_ = c.consumeUntilReady("Describe")
			return pgerror.FromErrorResponse(parseErrorFields(msg))
		default:
			return errUnexpectedMessage("Describe", tag)
		}
	}

	return nil
}

// Close releases the portal. It is safe to call Close on an already
// exhausted or already-closed Cursor. After Close, Next fails with
// KindCursorClosed.
func (cur *Cursor) Close(ctx context.Context) error {
	closedErr := pgerror.New(pgerror.KindCursorClosed, "cursor is closed")
	if !cur.started || cur.done {
		cur.err = closedErr
		return nil
	}
	c := cur.conn
	c.sendClose(byte(buffer.PreparePortal), cur.portal)
	c.sendSync()
	if err := c.flush(); err != nil {
		return err
	}

	tag, msg, err := c.reader.ReadTypedMsg()
	if err != nil {
		return pgerror.Wrap(pgerror.KindSocket, err)
	}
	if tag == types.ServerErrorResponse {
		_ = c.consumeUntilReady("Close")
		return pgerror.FromErrorResponse(parseErrorFields(msg))
	}
	if tag != types.ServerCloseComplete {
		return errUnexpectedMessage("Close", tag)
	}
	cur.done = true
	cur.err = closedErr
	return c.consumeUntilReady("Close")
}
