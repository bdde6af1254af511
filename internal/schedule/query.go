package schedule

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/medibot/clinic-scheduler/internal/jtime"
	"github.com/medibot/clinic-scheduler/internal/sheet"
)

// ListFilter narrows List results. Bounds are inclusive when set.
type ListFilter struct {
	Start            *jtime.Date
	End              *jtime.Date
	IncludeCancelled bool
}

// Query lists appointments for reporting and the reminder worker.
type Query struct {
	store  sheet.Store
	logger *zap.Logger
}

func NewQuery(store sheet.Store, logger *zap.Logger) *Query {
	return &Query{store: store, logger: logger}
}

// ByDate returns the day's active appointments.
func (q *Query) ByDate(ctx context.Context, tenant string, date jtime.Date) ([]Appointment, error) {
	rows, err := loadAppointments(ctx, q.store, tenant)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	dateStr := date.String()
	out := make([]Appointment, 0)
	for _, row := range rows {
		if row.Active() && row.Date == dateStr {
			out = append(out, row.Appointment)
		}
	}
	return out, nil
}

// List returns appointments filtered by date range and cancellation
// status, sorted by date then by time of day. Times are compared parsed:
// the H:mm format leaves the hour unpadded, so string order would put
// 10:00 before 9:30.
func (q *Query) List(ctx context.Context, tenant string, f ListFilter) ([]Appointment, error) {
	rows, err := loadAppointments(ctx, q.store, tenant)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	type dated struct {
		appt    Appointment
		date    jtime.Date
		minutes int
	}

	var kept []dated
	for _, row := range rows {
		if !f.IncludeCancelled && !row.Active() {
			continue
		}

		minutes, terr := jtime.ParseClock(row.Time)
		if terr != nil {
			minutes = 0
		}

		d, err := jtime.ParseDate(row.Date)
		if err != nil {
			if f.Start != nil || f.End != nil {
				continue
			}
			kept = append(kept, dated{appt: row.Appointment, minutes: minutes})
			continue
		}
		if f.Start != nil && d.Compare(*f.Start) < 0 {
			continue
		}
		if f.End != nil && d.Compare(*f.End) > 0 {
			continue
		}
		kept = append(kept, dated{appt: row.Appointment, date: d, minutes: minutes})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if c := kept[i].date.Compare(kept[j].date); c != 0 {
			return c < 0
		}
		return kept[i].minutes < kept[j].minutes
	})

	out := make([]Appointment, len(kept))
	for i, k := range kept {
		out[i] = k.appt
	}
	return out, nil
}
