package pgvalue

import "fmt"

// decodeBool parses Postgres's text boolean representation. The backend
// always sends "t" or "f" in text format regardless of how the value was
// written on input, so this is a two-case switch rather than a general
// strconv.ParseBool (which would also accept "1"/"true"/"TRUE", none of
// which the wire ever actually sends).
func decodeBool(text string) (bool, error) {
	switch text {
	case "t":
		return true, nil
	case "f":
		return false, nil
	default:
		return false, fmt.Errorf("pgvalue: invalid boolean text representation %q", text)
	}
}

// EncodeBool renders v in the text format the wire protocol expects for a
// bool-typed bind parameter.
func EncodeBool(v bool) string {
	if v {
		return "t"
	}
	return "f"
}
