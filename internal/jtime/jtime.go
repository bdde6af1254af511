// Package jtime holds the date and clock value formats the appointment
// sheets use: dates as yyyy/M/d and clock times as H:mm, both without
// zero-padded components. Values written to a sheet must read back
// byte-identical, so all formatting goes through this package.
package jtime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar date in the sheet's yyyy/M/d form.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate parses "2026/1/27" (zero-padded components are accepted).
func ParseDate(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("date %q: want yyyy/M/d", s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, fmt.Errorf("date %q: %w", s, err)
		}
		nums[i] = n
	}

	d := Date{Year: nums[0], Month: nums[1], Day: nums[2]}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return Date{}, fmt.Errorf("date %q: out of range", s)
	}
	return d, nil
}

// String formats the date without zero padding: 2026/1/27.
func (d Date) String() string {
	return fmt.Sprintf("%d/%d/%d", d.Year, d.Month, d.Day)
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.Local)
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) AddDays(n int) Date {
	t := d.Time().AddDate(0, 0, n)
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// Compare returns -1, 0 or 1 ordering d against other.
func (d Date) Compare(other Date) int {
	a := d.Year*10000 + d.Month*100 + d.Day
	b := other.Year*10000 + other.Month*100 + other.Day
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// DateOf converts a time.Time to a Date in its own location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// ParseClock parses a clock time into minutes from midnight. Accepted
// forms: "9:30", "09:30" and "9:30:00" (a seconds component is ignored).
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("clock %q: want H:mm", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("clock %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock %q: out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes from midnight as H:mm — unpadded hour,
// zero-padded minute, matching the sheet's native time format.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// NormalizeClock rewrites any accepted clock form into canonical H:mm,
// stripping a seconds component. Unparseable input is returned as-is.
func NormalizeClock(s string) string {
	minutes, err := ParseClock(s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return FormatClock(minutes)
}
