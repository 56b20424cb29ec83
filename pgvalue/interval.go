package pgvalue

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Interval represents a Postgres INTERVAL value as the three independent
// components Postgres itself stores it as (months, days, microseconds) —
// collapsing it into a single duration would lose the distinction between
// "1 month" and "30 days", which are not interchangeable once added to a
// date that crosses a month boundary.
type Interval struct {
	Months       int32
	Days         int32
	Microseconds int64
}

var intervalUnitPattern = regexp.MustCompile(`(-?\d+)\s+(year|mon|day)s?`)

// decodeInterval parses the default "postgres" IntervalStyle output, e.g.
// "1 year 2 mons 3 days 04:05:06.7" or "-1 day -04:05:06".
func decodeInterval(text string) (Interval, error) {
	var iv Interval

	clockIdx := findClockComponent(text)
	unitsPart := text
	clockPart := ""
	if clockIdx >= 0 {
		unitsPart = strings.TrimSpace(text[:clockIdx])
		clockPart = strings.TrimSpace(text[clockIdx:])
	}

	for _, m := range intervalUnitPattern.FindAllStringSubmatch(unitsPart, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Interval{}, fmt.Errorf("pgvalue: invalid interval component %q: %w", m[0], err)
		}
		switch m[2] {
		case "year":
			iv.Months += int32(n) * 12
		case "mon":
			iv.Months += int32(n)
		case "day":
			iv.Days += int32(n)
		}
	}

	if clockPart != "" {
		micros, err := parseClockMicroseconds(clockPart)
		if err != nil {
			return Interval{}, fmt.Errorf("pgvalue: invalid interval time component %q: %w", clockPart, err)
		}
		iv.Microseconds = micros
	}

	if unitsPart == "" && clockPart == "" {
		return Interval{}, fmt.Errorf("pgvalue: empty interval text representation")
	}

	return iv, nil
}

// findClockComponent locates the "HH:MM:SS" component within an interval's
// text representation, distinguishing it from the "N unit" components that
// precede it.
func findClockComponent(text string) int {
	fields := strings.Fields(text)
	consumed := 0
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if strings.Contains(f, ":") {
			return consumed
		}
		consumed += len(f) + 1
	}
	return -1
}

func parseClockMicroseconds(s string) (int64, error) {
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	fields := strings.SplitN(s, ":", 3)
	if len(fields) != 3 {
		return 0, fmt.Errorf("expected HH:MM:SS, got %q", s)
	}

	hours, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, err
	}

	secStr, fracStr, _ := strings.Cut(fields[2], ".")
	seconds, err := strconv.Atoi(secStr)
	if err != nil {
		return 0, err
	}

	var micros int64
	if fracStr != "" {
		fracStr = (fracStr + "000000")[:6]
		frac, err := strconv.Atoi(fracStr)
		if err != nil {
			return 0, err
		}
		micros = int64(frac)
	}

	total := int64(hours)*3600_000_000 + int64(minutes)*60_000_000 + int64(seconds)*1_000_000 + micros
	if negative {
		total = -total
	}
	return total, nil
}

// EncodeInterval renders iv in the default "postgres" IntervalStyle text
// format the wire protocol expects for an interval-typed bind parameter.
func EncodeInterval(iv Interval) string {
	var parts []string

	years, months := iv.Months/12, iv.Months%12
	if years != 0 {
		parts = append(parts, pluralize(years, "year"))
	}
	if months != 0 {
		parts = append(parts, pluralize(months, "mon"))
	}
	if iv.Days != 0 {
		parts = append(parts, pluralize(iv.Days, "day"))
	}

	micros := iv.Microseconds
	if micros != 0 || len(parts) == 0 {
		negative := micros < 0
		if negative {
			micros = -micros
		}
		hours := micros / 3600_000_000
		micros %= 3600_000_000
		minutes := micros / 60_000_000
		micros %= 60_000_000
		seconds := micros / 1_000_000
		frac := micros % 1_000_000

		clock := fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
		if frac != 0 {
			clock += "." + strings.TrimRight(fmt.Sprintf("%06d", frac), "0")
		}
		if negative {
			clock = "-" + clock
		}
		parts = append(parts, clock)
	}

	return strings.Join(parts, " ")
}

func pluralize(n int32, unit string) string {
	if n == 1 || n == -1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
