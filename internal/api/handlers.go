package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odontosoft/clinic-scheduling/internal/booking"
	"github.com/odontosoft/clinic-scheduling/internal/clinic"
	"github.com/odontosoft/clinic-scheduling/internal/invoice"
	"github.com/odontosoft/clinic-scheduling/internal/money"
	"github.com/odontosoft/clinic-scheduling/internal/timefmt"
)

func createBookingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		in, err := parseCreateBooking(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}

		b, err := svc.Create(r.Context(), in)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, b)
	}
}

func parseCreateBooking(req CreateBookingRequest) (booking.CreateInput, error) {
	kind := booking.Kind(req.Kind)
	if req.Kind == "" {
		kind = booking.KindAppointment
	}

	day, err := timefmt.ParseDate(req.Day)
	if err != nil {
		return booking.CreateInput{}, err
	}
	start, err := timefmt.ParseTimeOfDay(req.Start)
	if err != nil {
		return booking.CreateInput{}, err
	}
	end, err := timefmt.ParseTimeOfDay(req.End)
	if err != nil {
		return booking.CreateInput{}, err
	}

	var cost money.Amount
	if req.Cost != "" {
		cost, err = money.Parse(req.Cost)
		if err != nil {
			return booking.CreateInput{}, err
		}
	}

	return booking.CreateInput{
		ID:          req.ID,
		Kind:        kind,
		DoctorID:    req.DoctorID,
		PatientID:   req.PatientID,
		TreatmentID: req.TreatmentID,
		Day:         day,
		Start:       start,
		End:         end,
		Cost:        cost,
	}, nil
}

func getBookingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

func listBookingsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if doctorID := r.URL.Query().Get("doctor_id"); doctorID != "" {
			bs, err := svc.ListByDoctor(r.Context(), doctorID)
			if err != nil {
				handleDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, bs)
			return
		}

		bs, err := svc.List(r.Context())
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, bs)
	}
}

func cancelBookingHandler(svc *booking.Service) http.HandlerFunc {
	return transitionHandler(svc.Cancel)
}

func confirmBookingHandler(svc *booking.Service) http.HandlerFunc {
	return transitionHandler(svc.Confirm)
}

func attendBookingHandler(svc *booking.Service) http.HandlerFunc {
	return transitionHandler(svc.ConfirmAttendance)
}

func noShowBookingHandler(svc *booking.Service) http.HandlerFunc {
	return transitionHandler(svc.MarkNoShow)
}

func transitionHandler(op func(ctx context.Context, id string) (*booking.Booking, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := op(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

func rescheduleBookingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RescheduleBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		day, err := timefmt.ParseDate(req.Day)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		start, err := timefmt.ParseTimeOfDay(req.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		end, err := timefmt.ParseTimeOfDay(req.End)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}

		b, err := svc.Reschedule(r.Context(), chi.URLParam(r, "id"), day, start, end)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

func amountDueHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		breakdown, err := svc.AmountDue(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, breakdown)
	}
}

func removeSlotHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
			handleDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listEventsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.Events(r.Context())
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}

// handleDomainError maps the error taxonomy onto HTTP statuses. Every
// failure is reported synchronously; nothing here is fatal.
func handleDomainError(w http.ResponseWriter, err error) {
	var bookingValidation *booking.ValidationError
	var invoiceValidation *invoice.ValidationError

	switch {
	case errors.As(err, &bookingValidation), errors.As(err, &invoiceValidation):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, booking.ErrDuplicateID), errors.Is(err, invoice.ErrDuplicateID):
		writeError(w, http.StatusConflict, "duplicate_id", err.Error())
	case errors.Is(err, booking.ErrSchedulingConflict):
		writeError(w, http.StatusConflict, "scheduling_conflict", err.Error())
	case errors.Is(err, booking.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, booking.ErrNotRemovable):
		writeError(w, http.StatusBadRequest, "not_removable", err.Error())
	case errors.Is(err, booking.ErrNotReschedulable):
		writeError(w, http.StatusConflict, "not_reschedulable", err.Error())
	case errors.Is(err, booking.ErrNotFound):
		writeError(w, http.StatusNotFound, "booking_not_found", err.Error())
	case errors.Is(err, invoice.ErrNotFound):
		writeError(w, http.StatusNotFound, "invoice_not_found", err.Error())
	case errors.Is(err, clinic.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, clinic.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, clinic.ErrTreatmentNotFound):
		writeError(w, http.StatusNotFound, "treatment_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
