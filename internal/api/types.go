package api

import (
	"encoding/json"
	"net/http"
)

type CancelRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// ClinicInfoResponse mirrors the resolved clinic configuration in the
// shape the chat layer's get_clinic_info tool expects.
type ClinicInfoResponse struct {
	ClinicName           string   `json:"clinicName"`
	StartTime            string   `json:"startTime"`
	EndTime              string   `json:"endTime"`
	BreakStart           string   `json:"breakStart,omitempty"`
	BreakEnd             string   `json:"breakEnd,omitempty"`
	SlotDurationMinutes  int      `json:"slotDurationMinutes"`
	MaxAdvanceDays       int      `json:"maxAdvanceDays"`
	ClosedDays           []string `json:"closedDays"`
	ClosedDaysMorning    []string `json:"closedDaysMorning"`
	ClosedDaysAfternoon  []string `json:"closedDaysAfternoon"`
	MaxPatientsPerSlot   int      `json:"maxPatientsPerSlot"`
	UsePatientCardNumber bool     `json:"usePatientCardNumber"`
	UseDoctorSelection   bool     `json:"useDoctorSelection"`
	DoctorList           []string `json:"doctorList,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
