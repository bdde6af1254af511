package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medibot/clinic-scheduler/internal/clinic"
	"github.com/medibot/clinic-scheduler/internal/jtime"
	"github.com/medibot/clinic-scheduler/internal/schedule"
)

func getSlotsHandler(avail *schedule.Availability) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := chi.URLParam(r, "tenant")

		date, err := jtime.ParseDate(r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be yyyy/M/d")
			return
		}

		slots, err := avail.Slots(r.Context(), tenant, date)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, slots)
	}
}

func getClinicInfoHandler(resolver *clinic.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := chi.URLParam(r, "tenant")
		cfg := resolver.Get(r.Context(), tenant)

		resp := ClinicInfoResponse{
			ClinicName:           cfg.ClinicName,
			StartTime:            jtime.FormatClock(cfg.StartMinutes),
			EndTime:              jtime.FormatClock(cfg.EndMinutes),
			SlotDurationMinutes:  cfg.SlotDurationMinutes,
			MaxAdvanceDays:       cfg.MaxAdvanceDays,
			ClosedDays:           cfg.ClosedFullDay.Labels(),
			ClosedDaysMorning:    cfg.ClosedMorning.Labels(),
			ClosedDaysAfternoon:  cfg.ClosedAfternoon.Labels(),
			MaxPatientsPerSlot:   cfg.MaxPatientsPerSlot,
			UsePatientCardNumber: cfg.UsePatientCardNumber,
			UseDoctorSelection:   cfg.UseDoctorSelection,
			DoctorList:           cfg.DoctorList,
		}
		if cfg.HasBreak() {
			resp.BreakStart = jtime.FormatClock(cfg.BreakStartMinutes)
			resp.BreakEnd = jtime.FormatClock(cfg.BreakEndMinutes)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func createAppointmentHandler(booking *schedule.Booking) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := chi.URLParam(r, "tenant")

		var cand schedule.Candidate
		if err := json.NewDecoder(r.Body).Decode(&cand); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if cand.Date == "" || cand.Time == "" || cand.PatientName == "" || cand.PatientPhone == "" {
			writeError(w, http.StatusBadRequest, "missing_fields", "date, time, patientName and patientPhone are required")
			return
		}

		result, err := booking.Create(r.Context(), tenant, cand)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		status := http.StatusCreated
		if !result.Success {
			status = http.StatusConflict
		}
		writeJSON(w, status, result)
	}
}

func cancelAppointmentHandler(booking *schedule.Booking) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := chi.URLParam(r, "tenant")

		var req CancelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Date == "" || req.Time == "" {
			writeError(w, http.StatusBadRequest, "missing_fields", "date and time are required")
			return
		}

		result, err := booking.Cancel(r.Context(), tenant, req.Date, req.Time)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		status := http.StatusOK
		if !result.Success {
			status = http.StatusNotFound
		}
		writeJSON(w, status, result)
	}
}

func listAppointmentsHandler(query *schedule.Query) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := chi.URLParam(r, "tenant")
		q := r.URL.Query()

		var filter schedule.ListFilter
		if v := q.Get("start"); v != "" {
			d, err := jtime.ParseDate(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_start", "start must be yyyy/M/d")
				return
			}
			filter.Start = &d
		}
		if v := q.Get("end"); v != "" {
			d, err := jtime.ParseDate(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_end", "end must be yyyy/M/d")
				return
			}
			filter.End = &d
		}
		filter.IncludeCancelled = q.Get("include_cancelled") == "true"

		appts, err := query.List(r.Context(), tenant, filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, appts)
	}
}
