package pgwire

import (
	"context"
	"strings"

	"github.com/pgwire/pgwire/internal/types"
	"github.com/pgwire/pgwire/pgerror"
)

// SimpleQuery runs sql over the simple query protocol and returns a Cursor
// over its rows. Unlike Statement.Execute, the simple query protocol does
// not support bind parameters. SimpleQuery handles one statement per call:
// the Cursor is built from the first RowDescription (or the first
// CommandComplete), and in a multi-statement sql string the messages of the
// second statement are reported as an unexpected-message protocol error.
//
// This is the one supplemented operation this module exposes beyond the
// extended query protocol, useful for commands like DECLARE/FETCH that are
// awkward to express as a prepared statement.
func (c *Conn) SimpleQuery(ctx context.Context, sql string) (*Cursor, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	c.writer.Start(types.ClientSimpleQuery)
	c.writer.AddNullTerminatedString(sql)
	if err := c.flush(); err != nil {
		return nil, err
	}

	cur := &Cursor{conn: c, started: true}

	for {
		tag, msg, err := c.reader.ReadTypedMsg()
		if err != nil {
			return nil, pgerror.Wrap(pgerror.KindSocket, err)
		}

		switch tag {
		case types.ServerRowDescription:
			cols, err := rowDescription(msg)
			if err != nil {
				return nil, err
			}
			cur.columns = cols
			return cur, nil

		case types.ServerCommandComplete:
			cur.done = true
			cur.rowCount = parseCommandTag(strings.TrimSuffix(string(msg), "\x00"))
			if err := c.consumeUntilReady("SimpleQuery"); err != nil {
				return nil, err
			}
			return cur, nil

		case types.ServerEmptyQuery:
			cur.done = true
			if err := c.consumeUntilReady("SimpleQuery"); err != nil {
				return nil, err
			}
			return cur, nil

		case types.ServerErrorResponse:
			_ = c.consumeUntilReady("SimpleQuery")
			return nil, pgerror.FromErrorResponse(parseErrorFields(msg))

		case types.ServerNoticeResponse:
			c.logNotice(msg)
			continue

		default:
			return nil, errUnexpectedMessage("SimpleQuery", tag)
		}
	}
}
