package booking

import (
	"context"
	"errors"

	"github.com/odontosoft/clinic-scheduling/internal/timefmt"
)

var (
	ErrNotFound    = errors.New("booking not found")
	ErrDuplicateID = errors.New("booking id already exists")
)

// Repository contains all store interactions needed by the service.
// The active set is everything not physically removed; status filtering
// is the caller's concern except where a method says otherwise.
type Repository interface {
	Insert(ctx context.Context, b *Booking) error
	Get(ctx context.Context, id string) (*Booking, error)
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id string) error

	// UpdateStatus moves the booking to a new status if its current
	// status is in from, checking and writing under one lock. The
	// returned bool reports whether the stored record changed.
	UpdateStatus(ctx context.Context, id string, to Status, from ...Status) (*Booking, bool, error)

	// UpdateSchedule moves an active booking to a new day and interval,
	// leaving its status untouched.
	UpdateSchedule(ctx context.Context, id string, day timefmt.Date, iv Interval) (*Booking, error)

	// For conflict checks: active (non-cancelled) bookings of one
	// doctor on one day.
	ListActiveByDoctorDay(ctx context.Context, doctorID string, day timefmt.Date) ([]Booking, error)

	List(ctx context.Context) ([]Booking, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]Booking, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
	ListEvents(ctx context.Context) ([]EventLog, error)
}
