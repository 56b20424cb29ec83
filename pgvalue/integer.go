package pgvalue

import "strconv"

// decodeInt parses the text representation of int2/int4/int8/oid. Stdlib
// strconv is used directly here rather than routing through pgx/v5/pgtype's
// Int8 codec: that codec's DecodeText is itself a thin strconv.ParseInt
// wrapper in the pinned version, so importing it would add a dependency
// edge without changing behavior for this one family.
func decodeInt(text string) (int64, error) {
	return strconv.ParseInt(text, 10, 64)
}

// EncodeInt renders v in the text format the wire protocol expects for an
// integer-typed bind parameter.
func EncodeInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
