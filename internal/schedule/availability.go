package schedule

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/medibot/clinic-scheduler/internal/clinic"
	"github.com/medibot/clinic-scheduler/internal/jtime"
	"github.com/medibot/clinic-scheduler/internal/sheet"
)

// Availability computes the ordered slot list for one day from the
// clinic configuration, the holiday list and the day's bookings.
type Availability struct {
	store    sheet.Store
	resolver *clinic.Resolver
	logger   *zap.Logger
}

func NewAvailability(store sheet.Store, resolver *clinic.Resolver, logger *zap.Logger) *Availability {
	return &Availability{
		store:    store,
		resolver: resolver,
		logger:   logger,
	}
}

// Slots returns the bookable slots of the given day in time order.
// A fully closed day (listed holiday or full-day weekday closure)
// returns an empty list, which is distinct from "all slots booked out".
func (a *Availability) Slots(ctx context.Context, tenant string, date jtime.Date) ([]TimeSlot, error) {
	var (
		cfg      clinic.Configuration
		holidays []jtime.Date
		appts    []appointmentRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cfg = a.resolver.Get(gctx, tenant)
		return nil
	})
	g.Go(func() error {
		var err error
		holidays, err = loadHolidays(gctx, a.store, tenant)
		return err
	})
	g.Go(func() error {
		var err error
		appts, err = loadAppointments(gctx, a.store, tenant)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, h := range holidays {
		if h.Compare(date) == 0 {
			return []TimeSlot{}, nil
		}
	}

	wd := clinic.FromTimeWeekday(date.Weekday())
	if cfg.ClosedFullDay.Has(wd) {
		return []TimeSlot{}, nil
	}
	morningClosed := cfg.ClosedMorning.Has(wd)
	afternoonClosed := cfg.ClosedAfternoon.Has(wd)

	// Occupancy per normalized H:mm time string for the day.
	dateStr := date.String()
	counts := make(map[string]int)
	names := make(map[string][]string)
	for _, row := range appts {
		if !row.Active() || row.Date != dateStr {
			continue
		}
		t := jtime.NormalizeClock(row.Time)
		counts[t]++
		if row.PatientName != "" {
			names[t] = append(names[t], row.PatientName)
		}
	}

	slots := make([]TimeSlot, 0, (cfg.EndMinutes-cfg.StartMinutes)/cfg.SlotDurationMinutes)
	for t := cfg.StartMinutes; t < cfg.EndMinutes; t += cfg.SlotDurationMinutes {
		// Break start is inclusive, break end is not.
		if cfg.HasBreak() && t >= cfg.BreakStartMinutes && t < cfg.BreakEndMinutes {
			continue
		}

		morning := t < cfg.BreakStartMinutes
		afternoon := t >= cfg.BreakEndMinutes
		if (morning && morningClosed) || (afternoon && afternoonClosed) {
			continue
		}

		ts := jtime.FormatClock(t)
		booked := counts[ts]
		remaining := cfg.MaxPatientsPerSlot - booked
		if remaining < 0 {
			remaining = 0
		}

		slots = append(slots, TimeSlot{
			Time:           ts,
			BookedCount:    booked,
			RemainingSlots: remaining,
			Available:      remaining > 0,
			PatientNames:   strings.Join(names[ts], "、"),
		})
	}
	return slots, nil
}
