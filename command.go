package pgwire

import (
	"encoding/binary"

	"github.com/lib/pq/oid"

	"github.com/pgwire/pgwire/internal/types"
	"github.com/pgwire/pgwire/pgerror"
	"github.com/pgwire/pgwire/pgvalue"
)

// sendParse writes a Parse message declaring a prepared statement. An empty
// paramOIDs lets the backend infer parameter types from the query text.
func (c *Conn) sendParse(name, sql string, paramOIDs []oid.Oid) {
	c.writer.Start(types.ClientParse)
	c.writer.AddNullTerminatedString(name)
	c.writer.AddNullTerminatedString(sql)
	c.writer.AddInt16(int16(len(paramOIDs)))
	for _, o := range paramOIDs {
		c.writer.AddUint32(uint32(o))
	}
}

// sendDescribe writes a Describe message for a statement or a portal.
func (c *Conn) sendDescribe(what byte, name string) {
	c.writer.Start(types.ClientDescribe)
	c.writer.AddByte(what)
	c.writer.AddNullTerminatedString(name)
}

// sendBind writes a Bind message binding params (already text-encoded) to
// portal against the named prepared statement, requesting text-format
// results throughout.
func (c *Conn) sendBind(portal, statement string, params [][]byte) {
	c.writer.Start(types.ClientBind)
	c.writer.AddNullTerminatedString(portal)
	c.writer.AddNullTerminatedString(statement)

	c.writer.AddInt16(1)
	c.writer.AddInt16(textFormat)

	c.writer.AddInt16(int16(len(params)))
	for _, p := range params {
		if p == nil {
			c.writer.AddInt32(-1)
			continue
		}
		c.writer.AddInt32(int32(len(p)))
		c.writer.AddBytes(p)
	}

	c.writer.AddInt16(1)
	c.writer.AddInt16(textFormat)
}

// sendExecute writes an Execute message for portal. maxRows == 0 requests
// every remaining row in one response.
func (c *Conn) sendExecute(portal string, maxRows int32) {
	c.writer.Start(types.ClientExecute)
	c.writer.AddNullTerminatedString(portal)
	c.writer.AddInt32(maxRows)
}

// sendSync writes a Sync message, the barrier that ends an extended-query
// round and returns the backend to the Ready state.
func (c *Conn) sendSync() {
	c.writer.Start(types.ClientSync)
}

// sendClose writes a Close message for a statement or a portal.
func (c *Conn) sendClose(what byte, name string) {
	c.writer.Start(types.ClientClose)
	c.writer.AddByte(what)
	c.writer.AddNullTerminatedString(name)
}

func (c *Conn) flush() error {
	if err := c.writer.End(); err != nil {
		return pgerror.Wrap(pgerror.KindSocket, err)
	}
	return nil
}

// parameterDescription parses an AnalyzeParameterDescription message body
// into its list of parameter type OIDs.
func parameterDescription(msg []byte) ([]oid.Oid, error) {
	if len(msg) < 2 {
		return nil, pgerror.New(pgerror.KindProtocol, "short ParameterDescription message")
	}
	count := binary.BigEndian.Uint16(msg[:2])
	msg = msg[2:]

	oids := make([]oid.Oid, 0, count)
	for i := uint16(0); i < count; i++ {
		if len(msg) < 4 {
			return nil, pgerror.New(pgerror.KindProtocol, "truncated ParameterDescription message")
		}
		oids = append(oids, oid.Oid(binary.BigEndian.Uint32(msg[:4])))
		msg = msg[4:]
	}
	return oids, nil
}

// rowDescription parses a RowDescription message body into column metadata.
func rowDescription(msg []byte) ([]ColumnMetadata, error) {
	if len(msg) < 2 {
		return nil, pgerror.New(pgerror.KindProtocol, "short RowDescription message")
	}
	count := binary.BigEndian.Uint16(msg[:2])
	msg = msg[2:]

	cols := make([]ColumnMetadata, 0, count)
	for i := uint16(0); i < count; i++ {
		nameEnd := indexByte(msg, 0)
		if nameEnd < 0 {
			return nil, pgerror.New(pgerror.KindProtocol, "malformed RowDescription: missing column name terminator")
		}
		name := string(msg[:nameEnd])
		msg = msg[nameEnd+1:]

		if len(msg) < 18 {
			return nil, pgerror.New(pgerror.KindProtocol, "truncated RowDescription column entry")
		}
		// tableOID(4) attrNum(2) dataTypeOID(4) dataTypeSize(2) typeModifier(4) format(2)
		tableOID := binary.BigEndian.Uint32(msg[0:4])
		attrNum := int16(binary.BigEndian.Uint16(msg[4:6]))
		dataTypeOID := binary.BigEndian.Uint32(msg[6:10])
		dataTypeSize := int16(binary.BigEndian.Uint16(msg[10:12]))
		typeModifier := int32(binary.BigEndian.Uint32(msg[12:16]))
		format := int16(binary.BigEndian.Uint16(msg[16:18]))
		msg = msg[18:]

		cols = append(cols, ColumnMetadata{
			Name:            name,
			TableOID:        oid.Oid(tableOID),
			AttributeNumber: attrNum,
			OID:             oid.Oid(dataTypeOID),
			DataTypeSize:    dataTypeSize,
			TypeModifier:    typeModifier,
			Format:          format,
		})
	}
	return cols, nil
}

// dataRow parses a DataRow message body into decoded values, keyed by cols.
func dataRow(cols []ColumnMetadata, msg []byte) ([]pgvalue.Value, error) {
	if len(msg) < 2 {
		return nil, pgerror.New(pgerror.KindProtocol, "short DataRow message")
	}
	count := binary.BigEndian.Uint16(msg[:2])
	msg = msg[2:]

	if int(count) != len(cols) {
		return nil, pgerror.Newf(pgerror.KindProtocol, "DataRow has %d columns, expected %d", count, len(cols))
	}

	values := make([]pgvalue.Value, count)
	for i := uint16(0); i < count; i++ {
		if len(msg) < 4 {
			return nil, pgerror.New(pgerror.KindProtocol, "truncated DataRow message")
		}
		length := int32(binary.BigEndian.Uint32(msg[:4]))
		msg = msg[4:]

		var raw []byte
		if length >= 0 {
			if len(msg) < int(length) {
				return nil, pgerror.New(pgerror.KindProtocol, "truncated DataRow column value")
			}
			raw = msg[:length]
			msg = msg[length:]
		}

		v, err := pgvalue.Decode(cols[i].OID, raw)
		if err != nil {
			if e, ok := err.(*pgerror.Error); ok {
				e.Column = int(i)
			}
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}
