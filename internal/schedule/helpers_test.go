package schedule

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/medibot/clinic-scheduler/internal/clinic"
	"github.com/medibot/clinic-scheduler/internal/sheet"
)

const testTenant = "t1"

var appointmentHeader = []string{
	"日付", "時間", "氏名", "電話番号", "メールアドレス", "診察券番号", "医師", "症状", "ステータス", "予約経路",
}

// seedTenant fills the three sheets of the test tenant. Appointment rows go
// below the header, holidays below theirs.
func seedTenant(store *sheet.MemoryStore, settings [][]string, appts [][]string, holidays []string) {
	store.Seed(testTenant, "設定", settings)

	apptRows := [][]string{appointmentHeader}
	apptRows = append(apptRows, appts...)
	store.Seed(testTenant, "予約", apptRows)

	holidayRows := [][]string{{"休診日"}}
	for _, h := range holidays {
		holidayRows = append(holidayRows, []string{h})
	}
	store.Seed(testTenant, "休診日", holidayRows)
}

func newEngine(t *testing.T, store *sheet.MemoryStore) (*Availability, *Booking, *Query) {
	t.Helper()
	logger := zap.NewNop()
	resolver := clinic.NewResolver(store, time.Minute, logger)
	avail := NewAvailability(store, resolver, logger)
	booking := NewBooking(store, avail, resolver, nil, nil, logger)
	query := NewQuery(store, logger)
	return avail, booking, query
}

func apptRow(date, timeStr, name, status string) []string {
	return []string{date, timeStr, name, "090-0000-0000", "", "", "", "", status, "Bot"}
}
