package schedule

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/medibot/clinic-scheduler/internal/clinic"
	"github.com/medibot/clinic-scheduler/internal/jtime"
	"github.com/medibot/clinic-scheduler/internal/notify"
	"github.com/medibot/clinic-scheduler/internal/redisclient"
	"github.com/medibot/clinic-scheduler/internal/sheet"
)

// Chat-facing domain messages. Booking outcomes are structured results,
// not errors; only store I/O failures propagate as errors.
const (
	MsgSlotInvalid     = "この時間帯は予約できません"
	MsgSlotUnavailable = "この時間帯はすでに予約が埋まっています"
	MsgBooked          = "予約を受け付けました"
	MsgCancelled       = "予約をキャンセルしました"
	MsgNotFound        = "該当する予約が見つかりませんでした"
	MsgContended       = "他の予約処理が進行中です。少し待ってからもう一度お試しください"
)

// DefaultBookedVia tags rows created through the chat flow when the
// caller supplies no channel.
const DefaultBookedVia = "Bot"

// Candidate is a booking request before validation.
type Candidate struct {
	Date              string `json:"date"`
	Time              string `json:"time"`
	PatientName       string `json:"patientName"`
	PatientPhone      string `json:"patientPhone"`
	PatientEmail      string `json:"patientEmail,omitempty"`
	PatientCardNumber string `json:"patientCardNumber,omitempty"`
	Doctor            string `json:"doctor,omitempty"`
	Symptom           string `json:"symptom,omitempty"`
	BookedVia         string `json:"bookedVia,omitempty"`
}

type BookingResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CancelResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	RowIndex int    `json:"rowIndex,omitempty"`
}

// Booking creates and cancels appointments. Creation re-checks
// availability immediately before the append; the optional locker
// serializes that read-then-write section per (tenant, date).
type Booking struct {
	store    sheet.Store
	avail    *Availability
	resolver *clinic.Resolver
	locker   redisclient.Locker
	mailer   notify.Mailer
	logger   *zap.Logger
}

func NewBooking(store sheet.Store, avail *Availability, resolver *clinic.Resolver, locker redisclient.Locker, mailer notify.Mailer, logger *zap.Logger) *Booking {
	if locker == nil {
		locker = redisclient.NopLocker{}
	}
	if mailer == nil {
		mailer = notify.NopMailer{}
	}
	return &Booking{
		store:    store,
		avail:    avail,
		resolver: resolver,
		locker:   locker,
		mailer:   mailer,
		logger:   logger,
	}
}

// Create validates the candidate against current occupancy and appends
// the appointment row. The slot must exist on that day and still have
// headroom at write time.
func (b *Booking) Create(ctx context.Context, tenant string, cand Candidate) (BookingResult, error) {
	date, err := jtime.ParseDate(cand.Date)
	if err != nil {
		return BookingResult{Success: false, Message: MsgSlotInvalid}, nil
	}
	timeStr := jtime.NormalizeClock(cand.Time)

	var result BookingResult
	err = b.locker.WithBookingLock(ctx, tenant, date.String(), func(lockCtx context.Context) error {
		slots, err := b.avail.Slots(lockCtx, tenant, date)
		if err != nil {
			return fmt.Errorf("recheck availability: %w", err)
		}

		var match *TimeSlot
		for i := range slots {
			if slots[i].Time == timeStr {
				match = &slots[i]
				break
			}
		}
		if match == nil {
			result = BookingResult{Success: false, Message: MsgSlotInvalid}
			return nil
		}
		if !match.Available {
			result = BookingResult{Success: false, Message: MsgSlotUnavailable}
			return nil
		}

		bookedVia := cand.BookedVia
		if bookedVia == "" {
			bookedVia = DefaultBookedVia
		}

		row := []any{
			date.String(),
			timeStr,
			cand.PatientName,
			cand.PatientPhone,
			cand.PatientEmail,
			cand.PatientCardNumber,
			cand.Doctor,
			cand.Symptom,
			string(StatusConfirmed),
			bookedVia,
		}
		if err := b.store.AppendRow(lockCtx, tenant, AppointmentRange, [][]any{row}); err != nil {
			return fmt.Errorf("append appointment: %w", err)
		}

		result = BookingResult{Success: true, Message: MsgBooked}
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return BookingResult{Success: false, Message: MsgContended}, nil
		}
		return BookingResult{}, err
	}

	if result.Success {
		b.logger.Info("appointment created",
			zap.String("tenant", tenant),
			zap.String("date", date.String()),
			zap.String("time", timeStr))
		b.sendConfirmation(ctx, tenant, cand, date.String(), timeStr)
	}
	return result, nil
}

// Cancel flips the status cell of the first active row matching the
// exact date and time strings. Cancelling twice fails the second time
// with a not-found result because the row no longer matches the active
// predicate.
func (b *Booking) Cancel(ctx context.Context, tenant, dateStr, timeStr string) (CancelResult, error) {
	rows, err := loadAppointments(ctx, b.store, tenant)
	if err != nil {
		return CancelResult{}, fmt.Errorf("load appointments: %w", err)
	}

	for _, row := range rows {
		if row.Date != dateStr || row.Time != timeStr || !row.Active() {
			continue
		}

		addr := sheet.CellAddr(AppointmentSheet, statusCol, row.sheetRow)
		cells := [][]any{{string(StatusCancelled)}}
		if err := b.store.UpdateCells(ctx, tenant, addr, cells); err != nil {
			return CancelResult{}, fmt.Errorf("update status cell %s: %w", addr, err)
		}

		b.logger.Info("appointment cancelled",
			zap.String("tenant", tenant),
			zap.String("date", dateStr),
			zap.String("time", timeStr),
			zap.Int("row", row.sheetRow))
		return CancelResult{Success: true, Message: MsgCancelled, RowIndex: row.sheetRow}, nil
	}

	return CancelResult{Success: false, Message: MsgNotFound}, nil
}

func (b *Booking) sendConfirmation(ctx context.Context, tenant string, cand Candidate, dateStr, timeStr string) {
	if cand.PatientEmail == "" {
		return
	}

	cfg := b.resolver.Get(ctx, tenant)
	mail := notify.BookingMail{
		To:          cand.PatientEmail,
		ClinicName:  cfg.ClinicName,
		PatientName: cand.PatientName,
		Date:        dateStr,
		Time:        timeStr,
	}
	if err := b.mailer.SendConfirmation(ctx, mail); err != nil {
		b.logger.Warn("confirmation mail failed",
			zap.String("tenant", tenant),
			zap.Error(err))
	}
}
