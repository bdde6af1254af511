package schedule

import (
	"context"
	"strings"

	"github.com/medibot/clinic-scheduler/internal/jtime"
	"github.com/medibot/clinic-scheduler/internal/sheet"
)

// Fixed sheet layout. The appointment sheet has a 1-row header and ten
// columns in this order: date, time, patientName, patientPhone,
// patientEmail, patientCardNumber, doctor, symptom, status, bookedVia.
const (
	AppointmentSheet    = "予約"
	AppointmentRange    = "予約!A2:J"
	appointmentStartRow = 2
	appointmentCols     = 10
	statusCol           = 9

	HolidaySheet = "休診日"
	HolidayRange = "休診日!A2:A"
)

// Status is the appointment lifecycle state. Cancellation is a soft
// state flip; rows are never deleted.
type Status string

const (
	StatusConfirmed Status = "確定"
	StatusCancelled Status = "キャンセル"
)

// ParseStatus canonicalizes the persisted status literal. Sheets edited
// by hand or by older versions carry variants like キャンセル済み or
// "Cancelled"; anything else counts as confirmed.
func ParseStatus(cell string) Status {
	cell = strings.TrimSpace(cell)
	if strings.Contains(cell, "キャンセル") || strings.EqualFold(cell, "cancelled") {
		return StatusCancelled
	}
	return StatusConfirmed
}

// Appointment is one row of the appointment sheet.
type Appointment struct {
	Date              string `json:"date"`
	Time              string `json:"time"`
	PatientName       string `json:"patientName"`
	PatientPhone      string `json:"patientPhone"`
	PatientEmail      string `json:"patientEmail,omitempty"`
	PatientCardNumber string `json:"patientCardNumber,omitempty"`
	Doctor            string `json:"doctor,omitempty"`
	Symptom           string `json:"symptom,omitempty"`
	Status            Status `json:"status"`
	BookedVia         string `json:"bookedVia"`
}

func (a Appointment) Active() bool {
	return a.Status != StatusCancelled
}

// TimeSlot is one bookable interval of one day, recomputed per query.
type TimeSlot struct {
	Time           string `json:"time"`
	BookedCount    int    `json:"bookedCount"`
	RemainingSlots int    `json:"remainingSlots"`
	Available      bool   `json:"available"`
	PatientNames   string `json:"patientNames,omitempty"`
}

// appointmentRow pairs an appointment with its absolute sheet row, which
// cancellation needs to address the status cell.
type appointmentRow struct {
	Appointment
	sheetRow int
}

func parseAppointment(row []string) Appointment {
	cells := make([]string, appointmentCols)
	copy(cells, row)
	return Appointment{
		Date:              strings.TrimSpace(cells[0]),
		Time:              strings.TrimSpace(cells[1]),
		PatientName:       strings.TrimSpace(cells[2]),
		PatientPhone:      strings.TrimSpace(cells[3]),
		PatientEmail:      strings.TrimSpace(cells[4]),
		PatientCardNumber: strings.TrimSpace(cells[5]),
		Doctor:            strings.TrimSpace(cells[6]),
		Symptom:           strings.TrimSpace(cells[7]),
		Status:            ParseStatus(cells[8]),
		BookedVia:         strings.TrimSpace(cells[9]),
	}
}

func loadAppointments(ctx context.Context, store sheet.Store, tenant string) ([]appointmentRow, error) {
	rows, err := store.ReadRange(ctx, tenant, AppointmentRange)
	if err != nil {
		return nil, err
	}

	out := make([]appointmentRow, 0, len(rows))
	for i, row := range rows {
		out = append(out, appointmentRow{
			Appointment: parseAppointment(row),
			sheetRow:    appointmentStartRow + i,
		})
	}
	return out, nil
}

func loadHolidays(ctx context.Context, store sheet.Store, tenant string) ([]jtime.Date, error) {
	rows, err := store.ReadRange(ctx, tenant, HolidayRange)
	if err != nil {
		return nil, err
	}

	var out []jtime.Date
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		d, err := jtime.ParseDate(row[0])
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}
