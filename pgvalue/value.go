// Package pgvalue implements lossless, typed conversion between the
// PostgreSQL text wire format and Go values. Every family gets its own file;
// Value is the tagged union a Row hands back to callers.
package pgvalue

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lib/pq/oid"

	"github.com/pgwire/pgwire/codes"
	"github.com/pgwire/pgwire/pgerror"
)

// Kind tags which family of Postgres type a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindNumeric
	KindText
	KindBytea
	KindDate
	KindTime
	KindTimestamp
	KindTimestampTZ
	KindInterval
)

// String names k for use in conversion-accessor error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	case KindBytea:
		return "bytea"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindTimestamp:
		return "timestamp"
	case KindTimestampTZ:
		return "timestamptz"
	case KindInterval:
		return "interval"
	default:
		return "unknown"
	}
}

// Value is the tagged union every decoded column is returned as. Exactly one
// of the typed fields is meaningful, selected by Kind; IsNull is true when
// the column held SQL NULL, in which case no typed field is meaningful.
type Value struct {
	Kind     Kind
	IsNull   bool
	OID      oid.Oid
	Bool     bool
	Int      int64
	Float    float64
	Numeric  Numeric
	Text     string
	Bytea    []byte
	Date     Date
	Time     Time
	Timestamp Timestamp
	Interval Interval
}

// typeMap is shared across Decode calls for OID -> type-name diagnostics
// only; it never participates in the actual text decode, which this package
// implements itself to keep calendar-component precision.
var typeMap = pgtype.NewMap()

// TypeName returns the Postgres type name registered for o, or "unknown" if
// pgtype has no entry for it.
func TypeName(o oid.Oid) string {
	if t, ok := typeMap.TypeForOID(uint32(o)); ok {
		return t.Name
	}
	return "unknown"
}

// Decode converts the text-format wire representation of a column into a
// Value, dispatching on the column's reported OID. raw == nil represents SQL
// NULL.
func Decode(o oid.Oid, raw []byte) (Value, error) {
	if raw == nil {
		return Value{Kind: KindNull, IsNull: true, OID: o}, nil
	}

	text := string(raw)
	switch o {
	case oid.T_bool:
		v, err := decodeBool(text)
		if err != nil {
			return Value{}, conversionError(o, "bool", err)
		}
		return Value{Kind: KindBool, OID: o, Bool: v}, nil

	case oid.T_int2, oid.T_int4, oid.T_int8, oid.T_oid:
		v, err := decodeInt(text)
		if err != nil {
			return Value{}, conversionError(o, "int64", err)
		}
		return Value{Kind: KindInt, OID: o, Int: v}, nil

	case oid.T_float4, oid.T_float8:
		v, err := decodeFloat(text)
		if err != nil {
			return Value{}, conversionError(o, "float64", err)
		}
		return Value{Kind: KindFloat, OID: o, Float: v}, nil

	case oid.T_numeric:
		v, err := decodeNumeric(text)
		if err != nil {
			return Value{}, conversionError(o, "pgvalue.Numeric", err)
		}
		return Value{Kind: KindNumeric, OID: o, Numeric: v}, nil

	case oid.T_bytea:
		v, err := decodeBytea(text)
		if err != nil {
			return Value{}, conversionError(o, "[]byte", err)
		}
		return Value{Kind: KindBytea, OID: o, Bytea: v}, nil

	case oid.T_date:
		v, err := decodeDate(text)
		if err != nil {
			return Value{}, conversionError(o, "pgvalue.Date", err)
		}
		return Value{Kind: KindDate, OID: o, Date: v}, nil

	case oid.T_time, oid.T_timetz:
		v, err := decodeTime(text)
		if err != nil {
			return Value{}, conversionError(o, "pgvalue.Time", err)
		}
		return Value{Kind: KindTime, OID: o, Time: v}, nil

	case oid.T_timestamp:
		v, err := decodeTimestamp(text, false)
		if err != nil {
			return Value{}, conversionError(o, "pgvalue.Timestamp", err)
		}
		return Value{Kind: KindTimestamp, OID: o, Timestamp: v}, nil

	case oid.T_timestamptz:
		v, err := decodeTimestamp(text, true)
		if err != nil {
			return Value{}, conversionError(o, "pgvalue.Timestamp", err)
		}
		return Value{Kind: KindTimestampTZ, OID: o, Timestamp: v}, nil

	case oid.T_interval:
		v, err := decodeInterval(text)
		if err != nil {
			return Value{}, conversionError(o, "pgvalue.Interval", err)
		}
		return Value{Kind: KindInterval, OID: o, Interval: v}, nil

	case oid.T_text, oid.T_varchar, oid.T_bpchar, oid.T_name, oid.T_unknown:
		return Value{Kind: KindText, OID: o, Text: text}, nil

	default:
		// Every other OID is returned as its raw text representation: the
		// wire protocol's text format is itself a lossless representation
		// for any type, so there is no information lost in falling back
		// here, only convenience.
		return Value{Kind: KindText, OID: o, Text: text}, nil
	}
}

func conversionError(o oid.Oid, target string, cause error) error {
	err := pgerror.WithCode(cause, codes.InvalidTextRepresentation)
	e := pgerror.Flatten(pgerror.KindValueConversion, err)
	e.TargetType = target
	e.Detail = TypeName(o)
	return e
}
