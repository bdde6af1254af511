package jtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026/1/27")
	require.NoError(t, err)
	require.Equal(t, Date{Year: 2026, Month: 1, Day: 27}, d)

	// Zero-padded input parses but formats back unpadded.
	d, err = ParseDate("2026/01/05")
	require.NoError(t, err)
	require.Equal(t, "2026/1/5", d.String())

	_, err = ParseDate("2026-01-05")
	require.Error(t, err)
	_, err = ParseDate("2026/13/1")
	require.Error(t, err)
	_, err = ParseDate("")
	require.Error(t, err)
}

func TestDateWeekday(t *testing.T) {
	d := Date{Year: 2026, Month: 1, Day: 27}
	require.Equal(t, time.Tuesday, d.Weekday())
	require.Equal(t, time.Wednesday, d.AddDays(1).Weekday())
}

func TestDateCompare(t *testing.T) {
	a := Date{Year: 2026, Month: 1, Day: 15}
	b := Date{Year: 2026, Month: 1, Day: 20}
	require.Equal(t, -1, a.Compare(b))
	require.Equal(t, 1, b.Compare(a))
	require.Equal(t, 0, a.Compare(a))
	require.Equal(t, -1, Date{Year: 2025, Month: 12, Day: 31}.Compare(a))
}

func TestParseClock(t *testing.T) {
	for input, want := range map[string]int{
		"9:30":    570,
		"09:30":   570,
		"9:30:00": 570,
		"0:00":    0,
		"23:59":   1439,
	} {
		got, err := ParseClock(input)
		require.NoError(t, err, input)
		require.Equal(t, want, got, input)
	}

	for _, bad := range []string{"", "930", "24:00", "9:60", "9時30分"} {
		_, err := ParseClock(bad)
		require.Error(t, err, bad)
	}
}

func TestFormatClock(t *testing.T) {
	// Unpadded hour, zero-padded minute.
	require.Equal(t, "9:00", FormatClock(540))
	require.Equal(t, "9:05", FormatClock(545))
	require.Equal(t, "14:30", FormatClock(870))
	require.Equal(t, "0:00", FormatClock(0))
}

func TestNormalizeClock(t *testing.T) {
	require.Equal(t, "9:30", NormalizeClock("9:30"))
	require.Equal(t, "9:30", NormalizeClock("09:30"))
	require.Equal(t, "9:30", NormalizeClock("9:30:00"))
	require.Equal(t, "garbage", NormalizeClock(" garbage "))
}

func TestClockRoundTrip(t *testing.T) {
	// What the booking flow writes must read back byte-identical.
	minutes, err := ParseClock("9:30")
	require.NoError(t, err)
	require.Equal(t, "9:30", FormatClock(minutes))
}
