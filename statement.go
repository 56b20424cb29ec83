package pgwire

import (
	"context"

	"github.com/lib/pq/oid"

	"github.com/pgwire/pgwire/internal/buffer"
	"github.com/pgwire/pgwire/internal/types"
	"github.com/pgwire/pgwire/pgerror"
)

// Statement is a parsed, named prepared statement. It is safe to Execute
// more than once, and must be closed with Close when no longer needed.
type Statement struct {
	conn      *Conn
	name      string
	sql       string
	paramOIDs []oid.Oid
	columns   []ColumnMetadata
	closed    bool
}

// Prepare parses sql on the backend, optionally hinting the OID of each
// bind parameter, and returns a reusable Statement. Passing no paramOIDs
// lets the backend infer parameter types from the query text.
func (c *Conn) Prepare(ctx context.Context, sql string, paramOIDs ...oid.Oid) (*Statement, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	name := c.names.next("stmt")

	c.sendParse(name, sql, paramOIDs)
	c.sendDescribe(byte(buffer.PrepareStatement), name)
	c.sendSync()
	if err := c.flush(); err != nil {
		return nil, err
	}

	stmt := &Statement{conn: c, name: name, sql: sql, paramOIDs: paramOIDs}

	if err := stmt.readPrepareResponses(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (s *Statement) readPrepareResponses() error {
	c := s.conn

	tag, msg, err := c.reader.ReadTypedMsg()
	if err != nil {
		return pgerror.Wrap(pgerror.KindSocket, err)
	}
	if tag == types.ServerErrorResponse {
		_ = c.consumeUntilReady("Prepare")
		return pgerror.FromErrorResponse(parseErrorFields(msg))
	}
	if tag != types.ServerParseComplete {
		return errUnexpectedMessage("Prepare", tag)
	}

	for {
		tag, msg, err := c.reader.ReadTypedMsg()
		if err != nil {
			return pgerror.Wrap(pgerror.KindSocket, err)
		}

		switch tag {
		case types.ServerParameterDescription:
			oids, err := parameterDescription(msg)
			if err != nil {
				return err
			}
			if len(s.paramOIDs) == 0 {
				s.paramOIDs = oids
			}

		case types.ServerRowDescription:
			cols, err := rowDescription(msg)
			if err != nil {
				return err
			}
			s.columns = cols

		case types.ServerNoData:
			s.columns = nil

		case types.ServerNoticeResponse:
			c.logNotice(msg)

		case types.ServerErrorResponse:
			_ = c.consumeUntilReady("Prepare")
			return pgerror.FromErrorResponse(parseErrorFields(msg))

		case types.ServerReady:
			c.setServerStatus(types.ServerStatus(msg[0]))
			return nil

		default:
			return errUnexpectedMessage("Prepare", tag)
		}
	}
}

// Columns returns the result set's column metadata, as reported when the
// statement was prepared. It is nil for statements that return no rows.
func (s *Statement) Columns() []ColumnMetadata {
	return s.columns
}

// ParameterOIDs returns the OID Postgres assigned or inferred for each bind
// parameter.
func (s *Statement) ParameterOIDs() []oid.Oid {
	return s.paramOIDs
}

// Close releases the prepared statement on the backend. Any Cursor still
// open against this statement becomes invalid.
func (s *Statement) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true

	c := s.conn
	c.sendClose(byte(buffer.PrepareStatement), s.name)
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
	return c.consumeUntilReady("Close")
}
