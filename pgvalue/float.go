package pgvalue

import "strconv"

// decodeFloat parses the text representation of float4/float8, including
// the "NaN", "Infinity" and "-Infinity" spellings Postgres uses, which
// strconv.ParseFloat already understands for "NaN"/"+Inf"/"-Inf" — Postgres's
// spelling of infinity differs, so it is normalized first.
func decodeFloat(text string) (float64, error) {
	switch text {
	case "Infinity":
		text = "+Inf"
	case "-Infinity":
		text = "-Inf"
	}
	return strconv.ParseFloat(text, 64)
}

// EncodeFloat renders v in the text format the wire protocol expects for a
// float-typed bind parameter.
func EncodeFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
