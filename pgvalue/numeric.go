package pgvalue

import "github.com/shopspring/decimal"

// Numeric wraps shopspring/decimal.Decimal, the arbitrary-precision type the
// teacher's go.mod and examples/numeric/main.go already use for the same
// concern. Postgres's NUMERIC has no fixed precision or scale ceiling;
// decimal.Decimal is the one type in this module's dependency graph able to
// round-trip it exactly.
type Numeric struct {
	decimal.Decimal
}

func decodeNumeric(text string) (Numeric, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return Numeric{}, err
	}
	return Numeric{Decimal: d}, nil
}

// EncodeNumeric renders v in the text format the wire protocol expects for
// a numeric-typed bind parameter.
func EncodeNumeric(v Numeric) string {
	return v.Decimal.String()
}
