package pgwire

import "github.com/pgwire/pgwire/pgvalue"

// textFormat is the FormatCode this module always binds parameters and
// requests results in. Binary format is an explicit spec non-goal.
const textFormat int16 = 0

// encodeParameter renders a bind parameter in the text wire format, or
// returns nil for SQL NULL.
func encodeParameter(v pgvalue.Value) []byte {
	if v.IsNull {
		return nil
	}

	switch v.Kind {
	case pgvalue.KindBool:
		return []byte(pgvalue.EncodeBool(v.Bool))
	case pgvalue.KindInt:
		return []byte(pgvalue.EncodeInt(v.Int))
	case pgvalue.KindFloat:
		return []byte(pgvalue.EncodeFloat(v.Float))
	case pgvalue.KindNumeric:
		return []byte(pgvalue.EncodeNumeric(v.Numeric))
	case pgvalue.KindBytea:
		return []byte(pgvalue.EncodeBytea(v.Bytea))
	case pgvalue.KindDate:
		return []byte(pgvalue.EncodeDate(v.Date))
	case pgvalue.KindTime:
		return []byte(pgvalue.EncodeTime(v.Time))
	case pgvalue.KindTimestamp, pgvalue.KindTimestampTZ:
		return []byte(pgvalue.EncodeTimestamp(v.Timestamp))
	case pgvalue.KindInterval:
		return []byte(pgvalue.EncodeInterval(v.Interval))
	default:
		return []byte(v.Text)
	}
}
