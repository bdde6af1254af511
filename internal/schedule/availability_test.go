package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medibot/clinic-scheduler/internal/jtime"
	"github.com/medibot/clinic-scheduler/internal/sheet"
)

func date(t *testing.T, s string) jtime.Date {
	t.Helper()
	d, err := jtime.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestSlotsMorningOnlyNoBreak(t *testing.T) {
	// 09:00-12:00, 30-minute slots, break bounds equal (no break).
	store := sheet.NewMemoryStore()
	seedTenant(store, [][]string{
		{"診療開始時間", "09:00"},
		{"診療終了時間", "12:00"},
		{"休憩開始時間", "12:00"},
		{"休憩終了時間", "12:00"},
		{"予約枠の単位（分）", "30"},
	}, nil, nil)
	avail, _, _ := newEngine(t, store)

	// 2026/1/26 is a Monday with no closures configured.
	slots, err := avail.Slots(context.Background(), testTenant, date(t, "2026/1/26"))
	require.NoError(t, err)

	times := make([]string, len(slots))
	for i, s := range slots {
		times[i] = s.Time
		require.Equal(t, 0, s.BookedCount)
		require.Equal(t, 1, s.RemainingSlots)
		require.True(t, s.Available)
		require.Empty(t, s.PatientNames)
	}
	require.Equal(t, []string{"9:00", "9:30", "10:00", "10:30", "11:00", "11:30"}, times)
}

func TestSlotsSkipBreakWindow(t *testing.T) {
	store := sheet.NewMemoryStore()
	seedTenant(store, [][]string{
		{"診療開始時間", "09:00"},
		{"診療終了時間", "16:00"},
		{"休憩開始時間", "12:00"},
		{"休憩終了時間", "14:00"},
		{"予約枠の単位（分）", "60"},
	}, nil, nil)
	avail, _, _ := newEngine(t, store)

	slots, err := avail.Slots(context.Background(), testTenant, date(t, "2026/1/26"))
	require.NoError(t, err)

	times := make([]string, len(slots))
	for i, s := range slots {
		times[i] = s.Time
	}
	// 12:00 and 13:00 fall in [breakStart, breakEnd); 14:00 does not.
	require.Equal(t, []string{"9:00", "10:00", "11:00", "14:00", "15:00"}, times)
}

func TestSlotsClosedWeekdayReturnsEmpty(t *testing.T) {
	store := sheet.NewMemoryStore()
	seedTenant(store, [][]string{
		{"休診日（終日）", "日"},
	}, nil, nil)
	avail, _, _ := newEngine(t, store)

	// 2026/2/1 is a Sunday: closed day means no slots at all, not "all
	// slots unavailable".
	slots, err := avail.Slots(context.Background(), testTenant, date(t, "2026/2/1"))
	require.NoError(t, err)
	require.NotNil(t, slots)
	require.Empty(t, slots)
}

func TestSlotsHolidayReturnsEmpty(t *testing.T) {
	store := sheet.NewMemoryStore()
	seedTenant(store, nil, nil, []string{"2026/1/26"})
	avail, _, _ := newEngine(t, store)

	slots, err := avail.Slots(context.Background(), testTenant, date(t, "2026/1/26"))
	require.NoError(t, err)
	require.Empty(t, slots)

	next, err := avail.Slots(context.Background(), testTenant, date(t, "2026/1/27"))
	require.NoError(t, err)
	require.NotEmpty(t, next)
}

func TestSlotsAfternoonClosure(t *testing.T) {
	// 2026/1/28 is a Wednesday; afternoon closed, break ends 14:00.
	store := sheet.NewMemoryStore()
	seedTenant(store, [][]string{
		{"診療開始時間", "09:00"},
		{"診療終了時間", "18:00"},
		{"休憩開始時間", "12:00"},
		{"休憩終了時間", "14:00"},
		{"予約枠の単位（分）", "30"},
		{"休診日（午後）", "水"},
	}, nil, nil)
	avail, _, _ := newEngine(t, store)

	slots, err := avail.Slots(context.Background(), testTenant, date(t, "2026/1/28"))
	require.NoError(t, err)

	times := make(map[string]bool)
	for _, s := range slots {
		times[s.Time] = true
	}
	require.True(t, times["11:00"])
	require.False(t, times["14:00"])
	require.False(t, times["17:30"])
}

func TestSlotsMorningClosure(t *testing.T) {
	store := sheet.NewMemoryStore()
	seedTenant(store, [][]string{
		{"診療開始時間", "09:00"},
		{"診療終了時間", "18:00"},
		{"休憩開始時間", "12:00"},
		{"休憩終了時間", "14:00"},
		{"予約枠の単位（分）", "30"},
		{"休診日（午前）", "水"},
	}, nil, nil)
	avail, _, _ := newEngine(t, store)

	slots, err := avail.Slots(context.Background(), testTenant, date(t, "2026/1/28"))
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	require.Equal(t, "14:00", slots[0].Time)
}

func TestSlotsOccupancy(t *testing.T) {
	store := sheet.NewMemoryStore()
	seedTenant(store, [][]string{
		{"診療開始時間", "09:00"},
		{"診療終了時間", "12:00"},
		{"予約枠の単位（分）", "30"},
		{"1枠あたりの最大予約数", "2"},
	}, [][]string{
		apptRow("2026/1/26", "9:30", "山田", "確定"),
		apptRow("2026/1/26", "9:30", "田中", "確定"),
		apptRow("2026/1/26", "10:00", "佐藤", "確定"),
		apptRow("2026/1/26", "10:30", "鈴木", "キャンセル"),
		apptRow("2026/1/27", "9:30", "別日", "確定"),
	}, nil)
	avail, _, _ := newEngine(t, store)

	slots, err := avail.Slots(context.Background(), testTenant, date(t, "2026/1/26"))
	require.NoError(t, err)

	byTime := make(map[string]TimeSlot)
	for _, s := range slots {
		byTime[s.Time] = s
	}

	full := byTime["9:30"]
	require.Equal(t, 2, full.BookedCount)
	require.Equal(t, 0, full.RemainingSlots)
	require.False(t, full.Available)
	require.Equal(t, "山田、田中", full.PatientNames)

	half := byTime["10:00"]
	require.Equal(t, 1, half.BookedCount)
	require.Equal(t, 1, half.RemainingSlots)
	require.True(t, half.Available)
	require.Equal(t, "佐藤", half.PatientNames)

	// Cancelled bookings do not occupy and other days do not leak in.
	cancelled := byTime["10:30"]
	require.Equal(t, 0, cancelled.BookedCount)
	require.True(t, cancelled.Available)
}

func TestSlotsNormalizeStoredSeconds(t *testing.T) {
	// Rows written by hand sometimes carry seconds; they must count
	// against the H:mm slot.
	store := sheet.NewMemoryStore()
	seedTenant(store, [][]string{
		{"診療開始時間", "09:00"},
		{"診療終了時間", "12:00"},
		{"予約枠の単位（分）", "30"},
	}, [][]string{
		apptRow("2026/1/26", "9:30:00", "山田", "確定"),
		apptRow("2026/1/26", "09:30", "田中", "確定"),
	}, nil)
	avail, _, _ := newEngine(t, store)

	slots, err := avail.Slots(context.Background(), testTenant, date(t, "2026/1/26"))
	require.NoError(t, err)

	for _, s := range slots {
		if s.Time == "9:30" {
			require.Equal(t, 2, s.BookedCount)
			return
		}
	}
	t.Fatal("9:30 slot not found")
}

func TestSlotsUniqueAndIncreasing(t *testing.T) {
	store := sheet.NewMemoryStore()
	seedTenant(store, [][]string{
		{"診療開始時間", "09:00"},
		{"診療終了時間", "18:00"},
		{"休憩開始時間", "12:00"},
		{"休憩終了時間", "13:00"},
		{"予約枠の単位（分）", "15"},
	}, nil, nil)
	avail, _, _ := newEngine(t, store)

	slots, err := avail.Slots(context.Background(), testTenant, date(t, "2026/1/26"))
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	seen := make(map[string]bool)
	prev := -1
	for _, s := range slots {
		require.False(t, seen[s.Time], s.Time)
		seen[s.Time] = true

		minutes, err := jtime.ParseClock(s.Time)
		require.NoError(t, err)
		require.Greater(t, minutes, prev)
		prev = minutes
	}
}

func TestSlotsStoreErrorPropagates(t *testing.T) {
	// No 予約 sheet seeded: the appointment read fails and the error
	// reaches the caller (settings failures alone fall back to
	// defaults, I/O failures on bookings do not).
	store := sheet.NewMemoryStore()
	store.Seed(testTenant, "設定", [][]string{{"クリニック名", "x"}})
	avail, _, _ := newEngine(t, store)

	_, err := avail.Slots(context.Background(), testTenant, date(t, "2026/1/26"))
	require.Error(t, err)
}
