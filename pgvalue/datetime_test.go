package pgvalue_test

import (
	"testing"

	"github.com/lib/pq/oid"
	"github.com/stretchr/testify/require"

	"github.com/pgwire/pgwire/pgvalue"
)

const (
	oidDate         = oid.T_date
	oidTimestampTZ  = oid.T_timestamptz
	oidInterval     = oid.T_interval
)

func TestDecodeDateISO(t *testing.T) {
	v, err := pgvalue.Decode(oidDate, []byte("2026-07-29"))
	require.NoError(t, err)
	require.Equal(t, int32(2026), v.Date.Year)
	require.Equal(t, uint8(7), v.Date.Month)
	require.Equal(t, uint8(29), v.Date.Day)
	require.False(t, v.Date.BC)
}

func TestDecodeDateBC(t *testing.T) {
	v, err := pgvalue.Decode(oidDate, []byte("4713-01-01 BC"))
	require.NoError(t, err)
	require.True(t, v.Date.BC)
	require.Equal(t, int32(4713), v.Date.Year)
}

func TestDecodeDateInfinity(t *testing.T) {
	v, err := pgvalue.Decode(oidDate, []byte("infinity"))
	require.NoError(t, err)
	require.True(t, v.Date.IsInfinity)
}

func TestEncodeDecodeDateRoundTrip(t *testing.T) {
	d := pgvalue.Date{Year: 1999, Month: 12, Day: 31}
	text := pgvalue.EncodeDate(d)
	require.Equal(t, "1999-12-31", text)
	v, err := pgvalue.Decode(oidDate, []byte(text))
	require.NoError(t, err)
	require.Equal(t, d, v.Date)
}

func TestDecodeTimestampTZWithOffset(t *testing.T) {
	v, err := pgvalue.Decode(oidTimestampTZ, []byte("2026-07-29 10:15:30.5+02"))
	require.NoError(t, err)
	require.Equal(t, uint8(10), v.Timestamp.Time.Hour)
	require.Equal(t, uint32(500000), v.Timestamp.Time.Microsecond)
	require.True(t, v.Timestamp.HasOffset)
	require.Equal(t, int32(7200), v.Timestamp.OffsetSeconds)
}

func TestDecodeIntervalMixed(t *testing.T) {
	v, err := pgvalue.Decode(oidInterval, []byte("1 year 2 mons 3 days 04:05:06"))
	require.NoError(t, err)
	require.Equal(t, int32(14), v.Interval.Months)
	require.Equal(t, int32(3), v.Interval.Days)
	require.Equal(t, int64(4*3600_000_000+5*60_000_000+6*1_000_000), v.Interval.Microseconds)
}

func TestDecodeIntervalNegativeClock(t *testing.T) {
	v, err := pgvalue.Decode(oidInterval, []byte("-1 days -04:05:06"))
	require.NoError(t, err)
	require.Equal(t, int32(-1), v.Interval.Days)
	require.True(t, v.Interval.Microseconds < 0)
}

func TestEncodeIntervalRoundTrip(t *testing.T) {
	iv := pgvalue.Interval{Months: 14, Days: 3, Microseconds: 4*3600_000_000 + 5*60_000_000 + 6*1_000_000}
	text := pgvalue.EncodeInterval(iv)

	v, err := pgvalue.Decode(oidInterval, []byte(text))
	require.NoError(t, err)
	require.Equal(t, iv, v.Interval)
}
