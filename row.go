package pgwire

import (
	"github.com/lib/pq/oid"

	"github.com/pgwire/pgwire/pgerror"
	"github.com/pgwire/pgwire/pgvalue"
)

// ColumnMetadata describes one column of a result set, as reported by a
// RowDescription message: name, the OID of the table it belongs to (0 for
// an unbound/computed column), its attribute number within that table (0
// likewise), its data type's OID, the data type's fixed size in bytes (or
// a negative sentinel for variable-length types), its type modifier, and
// the format code the value is sent in.
type ColumnMetadata struct {
	Name            string
	TableOID        oid.Oid
	AttributeNumber int16
	OID             oid.Oid
	DataTypeSize    int16
	TypeModifier    int32
	Format          int16
}

// TypeName returns the Postgres type name registered for this column's OID.
func (m ColumnMetadata) TypeName() string {
	return pgvalue.TypeName(m.OID)
}

// Row is one decoded result row, addressable by column index.
type Row struct {
	columns []ColumnMetadata
	values  []pgvalue.Value
}

// Len returns the number of columns in the row.
func (r Row) Len() int {
	return len(r.values)
}

// Columns returns the result set's column metadata.
func (r Row) Columns() []ColumnMetadata {
	return r.columns
}

// Value returns the decoded value at column index i.
func (r Row) Value(i int) (pgvalue.Value, error) {
	if i < 0 || i >= len(r.values) {
		return pgvalue.Value{}, pgerror.Newf(pgerror.KindValueConversion, "column index %d out of range [0,%d)", i, len(r.values))
	}
	return r.values[i], nil
}

// ValueByName returns the decoded value of the first column matching name.
func (r Row) ValueByName(name string) (pgvalue.Value, error) {
	for i, col := range r.columns {
		if col.Name == name {
			return r.values[i], nil
		}
	}
	return pgvalue.Value{}, pgerror.Newf(pgerror.KindValueConversion, "no column named %q", name)
}

// required fetches column i, failing with KindValueIsNull rather than
// handing the caller a zero Value when the column holds SQL NULL.
func (r Row) required(i int) (pgvalue.Value, error) {
	v, err := r.Value(i)
	if err != nil {
		return pgvalue.Value{}, err
	}
	if v.IsNull {
		name := ""
		if i >= 0 && i < len(r.columns) {
			name = r.columns[i].Name
		}
		e := pgerror.Newf(pgerror.KindValueIsNull, "column %d (%s) is null", i, name)
		e.Column = i
		return pgvalue.Value{}, e
	}
	return v, nil
}

func kindMismatch(i int, v pgvalue.Value, want string) error {
	e := pgerror.Newf(pgerror.KindValueConversion, "column %d is %s, not %s", i, v.Kind, want)
	e.Column = i
	return e
}

// Int64 returns the column's value as an int64, failing with KindValueIsNull
// on a null column and KindValueConversion on any other type.
func (r Row) Int64(i int) (int64, error) {
	v, err := r.required(i)
	if err != nil {
		return 0, err
	}
	if v.Kind != pgvalue.KindInt {
		return 0, kindMismatch(i, v, "int")
	}
	return v.Int, nil
}

// OptionalInt64 is Int64, but returns a nil *int64 for a null column instead
// of failing.
func (r Row) OptionalInt64(i int) (*int64, error) {
	v, err := r.Value(i)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	if v.Kind != pgvalue.KindInt {
		return nil, kindMismatch(i, v, "int")
	}
	n := v.Int
	return &n, nil
}

// Float64 returns the column's value as a float64, failing with
// KindValueIsNull on a null column and KindValueConversion on any other type.
func (r Row) Float64(i int) (float64, error) {
	v, err := r.required(i)
	if err != nil {
		return 0, err
	}
	if v.Kind != pgvalue.KindFloat {
		return 0, kindMismatch(i, v, "float")
	}
	return v.Float, nil
}

// OptionalFloat64 is Float64, but returns a nil *float64 for a null column
// instead of failing.
func (r Row) OptionalFloat64(i int) (*float64, error) {
	v, err := r.Value(i)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	if v.Kind != pgvalue.KindFloat {
		return nil, kindMismatch(i, v, "float")
	}
	f := v.Float
	return &f, nil
}

// Bool returns the column's value as a bool, failing with KindValueIsNull on
// a null column and KindValueConversion on any other type.
func (r Row) Bool(i int) (bool, error) {
	v, err := r.required(i)
	if err != nil {
		return false, err
	}
	if v.Kind != pgvalue.KindBool {
		return false, kindMismatch(i, v, "bool")
	}
	return v.Bool, nil
}

// OptionalBool is Bool, but returns a nil *bool for a null column instead of
// failing.
func (r Row) OptionalBool(i int) (*bool, error) {
	v, err := r.Value(i)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	if v.Kind != pgvalue.KindBool {
		return nil, kindMismatch(i, v, "bool")
	}
	b := v.Bool
	return &b, nil
}

// Text returns the column's value as a string, failing with KindValueIsNull
// on a null column and KindValueConversion on any other type.
func (r Row) Text(i int) (string, error) {
	v, err := r.required(i)
	if err != nil {
		return "", err
	}
	if v.Kind != pgvalue.KindText {
		return "", kindMismatch(i, v, "text")
	}
	return v.Text, nil
}

// OptionalText is Text, but returns a nil *string for a null column instead
// of failing.
func (r Row) OptionalText(i int) (*string, error) {
	v, err := r.Value(i)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	if v.Kind != pgvalue.KindText {
		return nil, kindMismatch(i, v, "text")
	}
	s := v.Text
	return &s, nil
}

// Numeric returns the column's value as a pgvalue.Numeric, failing with
// KindValueIsNull on a null column and KindValueConversion on any other type.
func (r Row) Numeric(i int) (pgvalue.Numeric, error) {
	v, err := r.required(i)
	if err != nil {
		return pgvalue.Numeric{}, err
	}
	if v.Kind != pgvalue.KindNumeric {
		return pgvalue.Numeric{}, kindMismatch(i, v, "numeric")
	}
	return v.Numeric, nil
}

// OptionalNumeric is Numeric, but returns a nil *pgvalue.Numeric for a null
// column instead of failing.
func (r Row) OptionalNumeric(i int) (*pgvalue.Numeric, error) {
	v, err := r.Value(i)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	if v.Kind != pgvalue.KindNumeric {
		return nil, kindMismatch(i, v, "numeric")
	}
	n := v.Numeric
	return &n, nil
}

// Bytes returns the column's value as a []byte, failing with
// KindValueIsNull on a null column and KindValueConversion on any other type.
func (r Row) Bytes(i int) ([]byte, error) {
	v, err := r.required(i)
	if err != nil {
		return nil, err
	}
	if v.Kind != pgvalue.KindBytea {
		return nil, kindMismatch(i, v, "bytea")
	}
	return v.Bytea, nil
}

// OptionalBytes is Bytes, but returns a nil []byte for a null column instead
// of failing.
func (r Row) OptionalBytes(i int) ([]byte, error) {
	v, err := r.Value(i)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	if v.Kind != pgvalue.KindBytea {
		return nil, kindMismatch(i, v, "bytea")
	}
	return v.Bytea, nil
}

// Date returns the column's value as a pgvalue.Date, failing with
// KindValueIsNull on a null column and KindValueConversion on any other type.
func (r Row) Date(i int) (pgvalue.Date, error) {
	v, err := r.required(i)
	if err != nil {
		return pgvalue.Date{}, err
	}
	if v.Kind != pgvalue.KindDate {
		return pgvalue.Date{}, kindMismatch(i, v, "date")
	}
	return v.Date, nil
}

// OptionalDate is Date, but returns a nil *pgvalue.Date for a null column
// instead of failing.
func (r Row) OptionalDate(i int) (*pgvalue.Date, error) {
	v, err := r.Value(i)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	if v.Kind != pgvalue.KindDate {
		return nil, kindMismatch(i, v, "date")
	}
	d := v.Date
	return &d, nil
}

// Time returns the column's value as a pgvalue.Time, failing with
// KindValueIsNull on a null column and KindValueConversion on any other type.
func (r Row) Time(i int) (pgvalue.Time, error) {
	v, err := r.required(i)
	if err != nil {
		return pgvalue.Time{}, err
	}
	if v.Kind != pgvalue.KindTime {
		return pgvalue.Time{}, kindMismatch(i, v, "time")
	}
	return v.Time, nil
}

// OptionalTime is Time, but returns a nil *pgvalue.Time for a null column
// instead of failing.
func (r Row) OptionalTime(i int) (*pgvalue.Time, error) {
	v, err := r.Value(i)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	if v.Kind != pgvalue.KindTime {
		return nil, kindMismatch(i, v, "time")
	}
	t := v.Time
	return &t, nil
}

// Timestamp returns the column's value as a pgvalue.Timestamp, accepting
// both timestamp and timestamptz columns. It fails with KindValueIsNull on a
// null column and KindValueConversion on any other type.
func (r Row) Timestamp(i int) (pgvalue.Timestamp, error) {
	v, err := r.required(i)
	if err != nil {
		return pgvalue.Timestamp{}, err
	}
	if v.Kind != pgvalue.KindTimestamp && v.Kind != pgvalue.KindTimestampTZ {
		return pgvalue.Timestamp{}, kindMismatch(i, v, "timestamp")
	}
	return v.Timestamp, nil
}

// OptionalTimestamp is Timestamp, but returns a nil *pgvalue.Timestamp for a
// null column instead of failing.
func (r Row) OptionalTimestamp(i int) (*pgvalue.Timestamp, error) {
	v, err := r.Value(i)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	if v.Kind != pgvalue.KindTimestamp && v.Kind != pgvalue.KindTimestampTZ {
		return nil, kindMismatch(i, v, "timestamp")
	}
	ts := v.Timestamp
	return &ts, nil
}

// Interval returns the column's value as a pgvalue.Interval, failing with
// KindValueIsNull on a null column and KindValueConversion on any other type.
func (r Row) Interval(i int) (pgvalue.Interval, error) {
	v, err := r.required(i)
	if err != nil {
		return pgvalue.Interval{}, err
	}
	if v.Kind != pgvalue.KindInterval {
		return pgvalue.Interval{}, kindMismatch(i, v, "interval")
	}
	return v.Interval, nil
}

// OptionalInterval is Interval, but returns a nil *pgvalue.Interval for a
// null column instead of failing.
func (r Row) OptionalInterval(i int) (*pgvalue.Interval, error) {
	v, err := r.Value(i)
	if err != nil {
		return nil, err
	}
	if v.IsNull {
		return nil, nil
	}
	if v.Kind != pgvalue.KindInterval {
		return nil, kindMismatch(i, v, "interval")
	}
	iv := v.Interval
	return &iv, nil
}
