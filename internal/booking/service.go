package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/odontosoft/clinic-scheduling/internal/clinic"
	"github.com/odontosoft/clinic-scheduling/internal/lock"
	"github.com/odontosoft/clinic-scheduling/internal/metrics"
	"github.com/odontosoft/clinic-scheduling/internal/money"
	"github.com/odontosoft/clinic-scheduling/internal/timefmt"
)

const (
	EventBookingCreated     = "BOOKING_CREATED"
	EventBookingConfirmed   = "BOOKING_CONFIRMED"
	EventBookingCancelled   = "BOOKING_CANCELLED"
	EventBookingAttended    = "BOOKING_ATTENDED"
	EventBookingNoShow      = "BOOKING_NO_SHOW"
	EventBookingRescheduled = "BOOKING_RESCHEDULED"
	EventBookingRemoved     = "BOOKING_REMOVED"
)

var (
	ErrSchedulingConflict      = errors.New("doctor is not available in that interval")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrNotRemovable            = errors.New("only schedule slots can be removed")
	ErrNotReschedulable        = errors.New("cancelled bookings cannot be rescheduled")
)

// ValidationError reports a missing or malformed field. The operation
// is aborted and no state changes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

type Service struct {
	repo     Repository
	registry *clinic.Registry
	locker   lock.Locker
	metrics  *metrics.ClinicMetrics
}

func NewService(repo Repository, registry *clinic.Registry, locker lock.Locker, m *metrics.ClinicMetrics) *Service {
	return &Service{
		repo:     repo,
		registry: registry,
		locker:   locker,
		metrics:  m,
	}
}

// CreateInput carries the already-structured field values collected by
// the caller. Parsing of raw date/time/amount strings happens before
// this point.
type CreateInput struct {
	ID          string
	Kind        Kind
	DoctorID    string
	PatientID   string
	TreatmentID string
	Day         timefmt.Date
	Start       timefmt.TimeOfDay
	End         timefmt.TimeOfDay
	Cost        money.Amount
}

// Create validates the candidate, rejects duplicates and scheduling
// conflicts, and appends it to the active set with status pending.
// The duplicate check, conflict scan and insert run under a per-doctor
// lock so concurrent callers cannot double-book an interval.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Booking, error) {
	if err := s.validateCreate(in); err != nil {
		s.metrics.ObserveBookingRejected("validation")
		return nil, err
	}

	interval, err := NewInterval(in.Start, in.End)
	if err != nil {
		s.metrics.ObserveBookingRejected("validation")
		return nil, invalid("interval", err.Error())
	}

	candidate := Booking{
		ID:          in.ID,
		Kind:        in.Kind,
		DoctorID:    in.DoctorID,
		PatientID:   in.PatientID,
		TreatmentID: in.TreatmentID,
		Day:         in.Day,
		Start:       interval.Start,
		End:         interval.End,
		Cost:        in.Cost,
		Status:      StatusPending,
	}

	var created *Booking

	err = s.locker.WithDoctorLock(ctx, in.DoctorID, func(lockCtx context.Context) error {
		if _, err := s.repo.Get(lockCtx, in.ID); err == nil {
			return ErrDuplicateID
		} else if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("check duplicate id: %w", err)
		}

		existing, err := s.repo.ListActiveByDoctorDay(lockCtx, in.DoctorID, in.Day)
		if err != nil {
			return fmt.Errorf("scan doctor bookings: %w", err)
		}
		for _, other := range existing {
			if Conflicts(other, candidate) {
				return ErrSchedulingConflict
			}
		}

		if err := s.repo.Insert(lockCtx, &candidate); err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		created = &candidate

		s.logEvent(lockCtx, candidate.ID, EventBookingCreated, map[string]any{
			"kind":      string(candidate.Kind),
			"doctor_id": candidate.DoctorID,
			"day":       candidate.Day.String(),
			"start":     candidate.Start.String(),
			"end":       candidate.End.String(),
		})
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateID):
			s.metrics.ObserveBookingRejected("duplicate_id")
		case errors.Is(err, ErrSchedulingConflict):
			s.metrics.ObserveBookingRejected("conflict")
		}
		return nil, err
	}

	s.metrics.ObserveBookingCreated(string(created.Kind))
	return created, nil
}

func (s *Service) validateCreate(in CreateInput) error {
	if in.ID == "" {
		return invalid("id", "is required")
	}
	if !in.Kind.Valid() {
		return invalid("kind", "must be appointment or schedule_slot")
	}
	if in.DoctorID == "" {
		return invalid("doctor_id", "is required")
	}
	if _, err := s.registry.GetDoctor(in.DoctorID); err != nil {
		return err
	}
	if in.Kind == KindAppointment {
		if in.PatientID == "" {
			return invalid("patient_id", "is required for appointments")
		}
		if in.Cost <= 0 {
			return invalid("cost", "must be greater than zero")
		}
	}
	if in.PatientID != "" {
		if _, err := s.registry.GetPatient(in.PatientID); err != nil {
			return err
		}
	}
	if in.TreatmentID != "" {
		if _, err := s.registry.GetTreatment(in.TreatmentID); err != nil {
			return err
		}
	}
	if in.Day.IsZero() {
		return invalid("day", "is required")
	}
	return nil
}

// Cancel marks the booking cancelled. The record stays in the store but
// its interval stops counting toward future conflict checks, so the
// doctor's time is freed for rebooking.
func (s *Service) Cancel(ctx context.Context, id string) (*Booking, error) {
	b, changed, err := s.repo.UpdateStatus(ctx, id, StatusCancelled,
		StatusPending, StatusConfirmed, StatusAttended, StatusNoShow, StatusCancelled)
	if err != nil {
		return nil, err
	}
	if changed {
		s.metrics.ObserveBookingCancelled()
		s.logEvent(ctx, b.ID, EventBookingCancelled, nil)
	}
	return b, nil
}

// Confirm moves a pending booking to confirmed.
func (s *Service) Confirm(ctx context.Context, id string) (*Booking, error) {
	return s.transition(ctx, id, StatusConfirmed, EventBookingConfirmed, StatusPending)
}

// ConfirmAttendance marks a booking attended. Cancelled bookings cannot
// be attended.
func (s *Service) ConfirmAttendance(ctx context.Context, id string) (*Booking, error) {
	return s.transition(ctx, id, StatusAttended, EventBookingAttended,
		StatusPending, StatusConfirmed, StatusAttended, StatusNoShow)
}

// MarkNoShow records that the patient did not attend.
func (s *Service) MarkNoShow(ctx context.Context, id string) (*Booking, error) {
	return s.transition(ctx, id, StatusNoShow, EventBookingNoShow,
		StatusPending, StatusConfirmed, StatusNoShow)
}

// transition delegates to the store's atomic status update so a
// concurrent cancel committed between read and write can never be
// overwritten.
func (s *Service) transition(ctx context.Context, id string, to Status, event string, from ...Status) (*Booking, error) {
	b, changed, err := s.repo.UpdateStatus(ctx, id, to, from...)
	if err != nil {
		return nil, err
	}
	if changed {
		s.logEvent(ctx, b.ID, event, nil)
	}
	return b, nil
}

// Reschedule moves a booking to a new day and interval. The conflict
// scan and the write run under the doctor lock, same as Create; the
// booking's own old interval never blocks its new one. The status stays
// whatever the store holds at write time, so a concurrent cancel wins.
func (s *Service) Reschedule(ctx context.Context, id string, day timefmt.Date, start, end timefmt.TimeOfDay) (*Booking, error) {
	if day.IsZero() {
		return nil, invalid("day", "is required")
	}
	interval, err := NewInterval(start, end)
	if err != nil {
		return nil, invalid("interval", err.Error())
	}

	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated *Booking
	err = s.locker.WithDoctorLock(ctx, b.DoctorID, func(lockCtx context.Context) error {
		cur, err := s.repo.Get(lockCtx, id)
		if err != nil {
			return err
		}
		if !cur.Status.Active() {
			return ErrNotReschedulable
		}

		candidate := *cur
		candidate.Day = day
		candidate.Start = interval.Start
		candidate.End = interval.End

		existing, err := s.repo.ListActiveByDoctorDay(lockCtx, cur.DoctorID, day)
		if err != nil {
			return fmt.Errorf("scan doctor bookings: %w", err)
		}
		for _, other := range existing {
			if other.ID == cur.ID {
				continue
			}
			if Conflicts(other, candidate) {
				return ErrSchedulingConflict
			}
		}

		updated, err = s.repo.UpdateSchedule(lockCtx, id, day, interval)
		if err != nil {
			return err
		}

		s.logEvent(lockCtx, id, EventBookingRescheduled, map[string]any{
			"day":   day.String(),
			"start": interval.Start.String(),
			"end":   interval.End.String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AmountDue sums the booking's own cost plus the cost of its linked
// treatment. A missing linked treatment counts as zero, not an error.
func (s *Service) AmountDue(ctx context.Context, id string) (*AmountBreakdown, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var treatmentCost money.Amount
	if b.TreatmentID != "" {
		t, err := s.registry.GetTreatment(b.TreatmentID)
		if err == nil {
			treatmentCost = t.Cost
		} else if !errors.Is(err, clinic.ErrTreatmentNotFound) {
			return nil, fmt.Errorf("load treatment: %w", err)
		}
	}

	return &AmountBreakdown{
		Base:      b.Cost,
		Treatment: treatmentCost,
		Total:     money.Sum(b.Cost, treatmentCost),
	}, nil
}

// Remove physically deletes a schedule slot from the active set.
// Appointments are never hard-deleted, only cancelled.
func (s *Service) Remove(ctx context.Context, id string) error {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if b.Kind != KindSlot {
		return ErrNotRemovable
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove slot: %w", err)
	}
	s.logEvent(ctx, id, EventBookingRemoved, nil)
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Booking, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Booking, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID string) ([]Booking, error) {
	if _, err := s.registry.GetDoctor(doctorID); err != nil {
		return nil, err
	}
	return s.repo.ListByDoctor(ctx, doctorID)
}

func (s *Service) Events(ctx context.Context) ([]EventLog, error) {
	return s.repo.ListEvents(ctx)
}

func (s *Service) logEvent(ctx context.Context, bookingID, eventType string, payload map[string]any) {
	var data []byte
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			log.Warn().Err(err).Str("event_type", eventType).Msg("marshal event payload")
			data = nil
		}
	}

	ev := EventLog{
		EventType: eventType,
		BookingID: bookingID,
		Payload:   data,
		CreatedAt: time.Now(),
	}
	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		log.Warn().Err(err).
			Str("event_type", eventType).
			Str("booking_id", bookingID).
			Msg("insert event log")
	}
}
