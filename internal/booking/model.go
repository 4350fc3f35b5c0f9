package booking

import (
	"fmt"
	"time"

	"github.com/odontosoft/clinic-scheduling/internal/money"
	"github.com/odontosoft/clinic-scheduling/internal/timefmt"
)

// Status is the unified lifecycle shared by appointments and schedule
// slots. A slot with no active booking at an interval is "available" by
// absence, not by a separate flag.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusAttended  Status = "attended"
	StatusNoShow    Status = "no_show"
)

// Active reports whether the booking still occupies its interval.
// Cancelled bookings stop counting toward conflict checks.
func (s Status) Active() bool {
	return s != StatusCancelled
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusAttended, StatusNoShow:
		return true
	}
	return false
}

type Kind string

const (
	KindAppointment Kind = "appointment"
	KindSlot        Kind = "schedule_slot"
)

func (k Kind) Valid() bool {
	return k == KindAppointment || k == KindSlot
}

// Interval is a half-open time range [Start, End) within one day,
// in minutes since midnight. Touching intervals do not overlap.
type Interval struct {
	Start timefmt.TimeOfDay `json:"start"`
	End   timefmt.TimeOfDay `json:"end"`
}

// NewInterval builds an interval, rejecting degenerate ranges so the
// overlap predicate never sees a zero or negative duration.
func NewInterval(start, end timefmt.TimeOfDay) (Interval, error) {
	if !start.Valid() {
		return Interval{}, fmt.Errorf("start time %d out of range", int(start))
	}
	if !end.Valid() {
		return Interval{}, fmt.Errorf("end time %d out of range", int(end))
	}
	if end <= start {
		return Interval{}, fmt.Errorf("end %s must be after start %s", end, start)
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether the two intervals share a strictly positive
// duration: max(start1, start2) < min(end1, end2).
func (iv Interval) Overlaps(other Interval) bool {
	start := iv.Start
	if other.Start > start {
		start = other.Start
	}
	end := iv.End
	if other.End < end {
		end = other.End
	}
	return start < end
}

// Booking is one doctor reservation: an appointment tied to a patient,
// or a doctor-only schedule slot.
type Booking struct {
	ID          string            `json:"id"`
	Kind        Kind              `json:"kind"`
	DoctorID    string            `json:"doctor_id"`
	PatientID   string            `json:"patient_id,omitempty"`
	TreatmentID string            `json:"treatment_id,omitempty"`
	Day         timefmt.Date      `json:"day"`
	Start       timefmt.TimeOfDay `json:"start"`
	End         timefmt.TimeOfDay `json:"end"`
	Cost        money.Amount      `json:"cost"`
	Status      Status            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (b Booking) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// Conflicts is the booking conflict predicate. Bookings of different
// doctors, or of the same doctor on different days, never conflict.
// It is pure and symmetric in its arguments.
func Conflicts(a, b Booking) bool {
	if a.DoctorID != b.DoctorID || a.Day != b.Day {
		return false
	}
	return a.Interval().Overlaps(b.Interval())
}

// EventLog records one booking lifecycle event.
type EventLog struct {
	ID        int64     `json:"id"`
	EventType string    `json:"event_type"`
	BookingID string    `json:"booking_id,omitempty"`
	Payload   []byte    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AmountBreakdown is the result of the amount-due computation: the
// booking's own cost plus the cost of its linked treatment, if any.
type AmountBreakdown struct {
	Base      money.Amount `json:"base"`
	Treatment money.Amount `json:"treatment"`
	Total     money.Amount `json:"total"`
}
