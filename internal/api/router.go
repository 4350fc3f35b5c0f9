package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/odontosoft/clinic-scheduling/internal/booking"
	"github.com/odontosoft/clinic-scheduling/internal/clinic"
	"github.com/odontosoft/clinic-scheduling/internal/invoice"
)

type RouterConfig struct {
	Bookings *booking.Service
	Invoices *invoice.Service
	Registry *clinic.Registry
	Env      string
	Version  string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	health := NewHealthHandler(cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/bookings", createBookingHandler(cfg.Bookings))
	r.Get("/bookings", listBookingsHandler(cfg.Bookings))
	r.Get("/bookings/{id}", getBookingHandler(cfg.Bookings))
	r.Get("/bookings/{id}/amount-due", amountDueHandler(cfg.Bookings))
	r.Post("/bookings/{id}/cancel", cancelBookingHandler(cfg.Bookings))
	r.Post("/bookings/{id}/confirm", confirmBookingHandler(cfg.Bookings))
	r.Post("/bookings/{id}/attend", attendBookingHandler(cfg.Bookings))
	r.Post("/bookings/{id}/no-show", noShowBookingHandler(cfg.Bookings))
	r.Post("/bookings/{id}/reschedule", rescheduleBookingHandler(cfg.Bookings))
	r.Delete("/bookings/{id}", removeSlotHandler(cfg.Bookings))

	r.Post("/invoices", createInvoiceHandler(cfg.Invoices))
	r.Get("/invoices", listInvoicesHandler(cfg.Invoices))
	r.Get("/invoices/{id}", getInvoiceHandler(cfg.Invoices))
	r.Post("/invoices/{id}/lines", addInvoiceLineHandler(cfg.Invoices))

	r.Get("/patients", listPatientsHandler(cfg.Registry))
	r.Get("/doctors", listDoctorsHandler(cfg.Registry))
	r.Get("/treatments", listTreatmentsHandler(cfg.Registry))

	r.Get("/events", listEventsHandler(cfg.Bookings))

	return r
}
