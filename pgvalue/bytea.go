package pgvalue

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// decodeBytea parses Postgres's "hex" bytea text format (\x followed by hex
// digits), the default output format since Postgres 9.0. The legacy
// "escape" format is not produced by any server this module targets.
func decodeBytea(text string) ([]byte, error) {
	if !strings.HasPrefix(text, "\\x") {
		return nil, fmt.Errorf("pgvalue: unsupported bytea text format, expected hex (\\x...) encoding")
	}
	return hex.DecodeString(text[2:])
}

// EncodeBytea renders v in the text format the wire protocol expects for a
// bytea-typed bind parameter.
func EncodeBytea(v []byte) string {
	return "\\x" + hex.EncodeToString(v)
}
