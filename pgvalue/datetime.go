package pgvalue

import (
	"fmt"
	"strconv"
	"strings"
)

// Date, Time and Timestamp are calendar-component structs rather than
// time.Time: Postgres's date range (4713 BC .. 5874897 AD) and its BC-era
// dates fall outside what time.Time can represent, and funneling every value
// through time.Time would silently truncate exactly the values this package
// exists to round-trip losslessly. The connection always issues
// "SET DateStyle = ISO, MDY" during startup, so these parsers only need to
// understand ISO style output.

// Date is a calendar date with no time-of-day component.
type Date struct {
	Year       int32
	Month      uint8
	Day        uint8
	BC         bool
	IsInfinity bool
	IsNegInf   bool
}

// Time is a time-of-day, optionally with a UTC offset (timetz).
type Time struct {
	Hour          uint8
	Minute        uint8
	Second        uint8
	Microsecond   uint32
	HasOffset     bool
	OffsetSeconds int32
}

// Timestamp combines a Date and a Time, optionally with a UTC offset
// (timestamptz).
type Timestamp struct {
	Date          Date
	Time          Time
	HasOffset     bool
	OffsetSeconds int32
	IsInfinity    bool
	IsNegInf      bool
}

func decodeDate(text string) (Date, error) {
	switch text {
	case "infinity":
		return Date{IsInfinity: true}, nil
	case "-infinity":
		return Date{IsNegInf: true}, nil
	}

	body := text
	bc := false
	if rest, ok := strings.CutSuffix(body, " BC"); ok {
		bc = true
		body = rest
	}

	parts := strings.SplitN(body, "-", 3)
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("pgvalue: invalid ISO date %q", text)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("pgvalue: invalid date year in %q: %w", text, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, fmt.Errorf("pgvalue: invalid date month in %q: %w", text, err)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, fmt.Errorf("pgvalue: invalid date day in %q: %w", text, err)
	}

	return Date{Year: int32(year), Month: uint8(month), Day: uint8(day), BC: bc}, nil
}

// EncodeDate renders d in the ISO text format the wire protocol expects for
// a date-typed bind parameter.
func EncodeDate(d Date) string {
	if d.IsInfinity {
		return "infinity"
	}
	if d.IsNegInf {
		return "-infinity"
	}
	s := fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	if d.BC {
		s += " BC"
	}
	return s
}

func decodeTime(text string) (Time, error) {
	body := text
	hasOffset := false
	offsetSeconds := int32(0)

	if idx := strings.IndexAny(body, "+-"); idx > 0 {
		offsetStr := body[idx:]
		body = body[:idx]
		off, err := parseOffset(offsetStr)
		if err != nil {
			return Time{}, fmt.Errorf("pgvalue: invalid time zone offset in %q: %w", text, err)
		}
		hasOffset = true
		offsetSeconds = off
	}

	hour, minute, second, micro, err := parseClock(body)
	if err != nil {
		return Time{}, fmt.Errorf("pgvalue: invalid ISO time %q: %w", text, err)
	}

	return Time{
		Hour: hour, Minute: minute, Second: second, Microsecond: micro,
		HasOffset: hasOffset, OffsetSeconds: offsetSeconds,
	}, nil
}

// EncodeTime renders t in the ISO text format the wire protocol expects for
// a time/timetz-typed bind parameter.
func EncodeTime(t Time) string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Microsecond > 0 {
		s += fmt.Sprintf(".%06d", t.Microsecond)
	}
	if t.HasOffset {
		s += formatOffset(t.OffsetSeconds)
	}
	return s
}

func decodeTimestamp(text string, tz bool) (Timestamp, error) {
	switch text {
	case "infinity":
		return Timestamp{IsInfinity: true}, nil
	case "-infinity":
		return Timestamp{IsNegInf: true}, nil
	}

	body := text
	bc := false
	if rest, ok := strings.CutSuffix(body, " BC"); ok {
		bc = true
		body = rest
	}

	sp := strings.IndexByte(body, ' ')
	if sp < 0 {
		return Timestamp{}, fmt.Errorf("pgvalue: invalid ISO timestamp %q", text)
	}
	datePart, timePart := body[:sp], body[sp+1:]

	date, err := decodeDate(datePart)
	if err != nil {
		return Timestamp{}, err
	}
	date.BC = bc

	timeVal, err := decodeTime(timePart)
	if err != nil {
		return Timestamp{}, err
	}

	return Timestamp{
		Date: date, Time: Time{
			Hour: timeVal.Hour, Minute: timeVal.Minute, Second: timeVal.Second, Microsecond: timeVal.Microsecond,
		},
		HasOffset: tz && timeVal.HasOffset, OffsetSeconds: timeVal.OffsetSeconds,
	}, nil
}

// EncodeTimestamp renders t in the ISO text format the wire protocol
// expects for a timestamp/timestamptz-typed bind parameter.
func EncodeTimestamp(t Timestamp) string {
	if t.IsInfinity {
		return "infinity"
	}
	if t.IsNegInf {
		return "-infinity"
	}
	s := EncodeDate(Date{Year: t.Date.Year, Month: t.Date.Month, Day: t.Date.Day}) + " " +
		fmt.Sprintf("%02d:%02d:%02d", t.Time.Hour, t.Time.Minute, t.Time.Second)
	if t.Time.Microsecond > 0 {
		s += fmt.Sprintf(".%06d", t.Time.Microsecond)
	}
	if t.HasOffset {
		s += formatOffset(t.OffsetSeconds)
	}
	if t.Date.BC {
		s += " BC"
	}
	return s
}

func parseClock(s string) (hour, minute, second uint8, micro uint32, err error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return 0, 0, 0, 0, fmt.Errorf("expected HH:MM:SS, got %q", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, 0, err
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, 0, err
	}

	secStr, fracStr, _ := strings.Cut(parts[2], ".")
	sec, err := strconv.Atoi(secStr)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	var microVal int
	if fracStr != "" {
		fracStr = (fracStr + "000000")[:6]
		microVal, err = strconv.Atoi(fracStr)
		if err != nil {
			return 0, 0, 0, 0, err
		}
	}

	return uint8(h), uint8(m), uint8(sec), uint32(microVal), nil
}

func parseOffset(s string) (int32, error) {
	sign := int32(1)
	if strings.HasPrefix(s, "-") {
		sign = -1
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "+"), "-")

	fields := strings.Split(s, ":")
	hours, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, err
	}
	minutes, seconds := 0, 0
	if len(fields) > 1 {
		minutes, err = strconv.Atoi(fields[1])
		if err != nil {
			return 0, err
		}
	}
	if len(fields) > 2 {
		seconds, err = strconv.Atoi(fields[2])
		if err != nil {
			return 0, err
		}
	}

	return sign * int32(hours*3600+minutes*60+seconds), nil
}

func formatOffset(totalSeconds int32) string {
	sign := "+"
	if totalSeconds < 0 {
		sign = "-"
		totalSeconds = -totalSeconds
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	if minutes == 0 {
		return fmt.Sprintf("%s%02d", sign, hours)
	}
	return fmt.Sprintf("%s%02d:%02d", sign, hours, minutes)
}
