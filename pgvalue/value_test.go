package pgvalue_test

import (
	"testing"

	"github.com/lib/pq/oid"
	"github.com/stretchr/testify/require"

	"github.com/pgwire/pgwire/pgvalue"
)

func TestDecodeNull(t *testing.T) {
	v, err := pgvalue.Decode(oid.T_int4, nil)
	require.NoError(t, err)
	require.True(t, v.IsNull)
	require.Equal(t, pgvalue.KindNull, v.Kind)
}

func TestDecodeBool(t *testing.T) {
	v, err := pgvalue.Decode(oid.T_bool, []byte("t"))
	require.NoError(t, err)
	require.Equal(t, pgvalue.KindBool, v.Kind)
	require.True(t, v.Bool)
}

func TestDecodeBoolInvalid(t *testing.T) {
	_, err := pgvalue.Decode(oid.T_bool, []byte("yes"))
	require.Error(t, err)
}

func TestDecodeInt(t *testing.T) {
	v, err := pgvalue.Decode(oid.T_int8, []byte("-42"))
	require.NoError(t, err)
	require.Equal(t, int64(-42), v.Int)
}

func TestDecodeFloatInfinity(t *testing.T) {
	v, err := pgvalue.Decode(oid.T_float8, []byte("Infinity"))
	require.NoError(t, err)
	require.True(t, v.Float > 0)
}

func TestDecodeNumericPreservesScale(t *testing.T) {
	v, err := pgvalue.Decode(oid.T_numeric, []byte("100.50"))
	require.NoError(t, err)
	require.Equal(t, "100.50", v.Numeric.String())
}

func TestDecodeBytea(t *testing.T) {
	v, err := pgvalue.Decode(oid.T_bytea, []byte("\\xdeadbeef"))
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, v.Bytea)
}

func TestDecodeText(t *testing.T) {
	v, err := pgvalue.Decode(oid.T_text, []byte("hello world"))
	require.NoError(t, err)
	require.Equal(t, "hello world", v.Text)
}

func TestRoundTripBool(t *testing.T) {
	require.Equal(t, "t", pgvalue.EncodeBool(true))
	require.Equal(t, "f", pgvalue.EncodeBool(false))
}
