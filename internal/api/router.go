package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/medibot/clinic-scheduler/internal/clinic"
	"github.com/medibot/clinic-scheduler/internal/schedule"
)

type RouterConfig struct {
	Resolver     *clinic.Resolver
	Availability *schedule.Availability
	Booking      *schedule.Booking
	Query        *schedule.Query
	Logger       *zap.Logger
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	// Health endpoints
	health := NewHealthHandler(cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)

	// Scheduling endpoints, one per chat tool
	r.Route("/tenants/{tenant}", func(r chi.Router) {
		r.Get("/slots", getSlotsHandler(cfg.Availability))
		r.Get("/clinic", getClinicInfoHandler(cfg.Resolver))
		r.Post("/appointments", createAppointmentHandler(cfg.Booking))
		r.Post("/appointments/cancel", cancelAppointmentHandler(cfg.Booking))
		r.Get("/appointments", listAppointmentsHandler(cfg.Query))
	})

	return r
}
