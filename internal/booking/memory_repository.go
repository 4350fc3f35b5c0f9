package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/odontosoft/clinic-scheduling/internal/timefmt"
)

// MemoryRepository is the authoritative in-process booking store. All
// records live and die with the process; a single lock guards every
// read and write so the conflict-scan-then-insert sequence cannot race.
type MemoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]Booking
	events   []EventLog
	nextEvID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		bookings: make(map[string]Booking),
		nextEvID: 1,
	}
}

func (r *MemoryRepository) Insert(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bookings[b.ID]; exists {
		return ErrDuplicateID
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	r.bookings[b.ID] = *b
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := b
	return &out, nil
}

func (r *MemoryRepository) Update(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return ErrNotFound
	}
	b.UpdatedAt = time.Now()
	r.bookings[b.ID] = *b
	return nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id string, to Status, from ...Status) (*Booking, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, false, ErrNotFound
	}

	allowed := false
	for _, st := range from {
		if b.Status == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, false, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, b.Status, to)
	}
	if b.Status == to {
		out := b
		return &out, false, nil
	}

	b.Status = to
	b.UpdatedAt = time.Now()
	r.bookings[id] = b
	out := b
	return &out, true, nil
}

func (r *MemoryRepository) UpdateSchedule(_ context.Context, id string, day timefmt.Date, iv Interval) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !b.Status.Active() {
		return nil, ErrNotReschedulable
	}

	b.Day = day
	b.Start = iv.Start
	b.End = iv.End
	b.UpdatedAt = time.Now()
	r.bookings[id] = b
	out := b
	return &out, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *MemoryRepository) ListActiveByDoctorDay(_ context.Context, doctorID string, day timefmt.Date) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Booking
	for _, b := range r.bookings {
		if b.DoctorID == doctorID && b.Day == day && b.Status.Active() {
			out = append(out, b)
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, b)
	}
	sortBookings(out)
	return out, nil
}

func (r *MemoryRepository) ListByDoctor(_ context.Context, doctorID string) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Booking
	for _, b := range r.bookings {
		if b.DoctorID == doctorID {
			out = append(out, b)
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *MemoryRepository) InsertEvent(_ context.Context, ev EventLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.ID = r.nextEvID
	r.nextEvID++
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *MemoryRepository) ListEvents(_ context.Context) ([]EventLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]EventLog, len(r.events))
	copy(out, r.events)
	return out, nil
}

func sortBookings(bs []Booking) {
	sort.Slice(bs, func(i, j int) bool {
		if bs[i].Day != bs[j].Day {
			di, dj := bs[i].Day, bs[j].Day
			if di.Year != dj.Year {
				return di.Year < dj.Year
			}
			if di.Month != dj.Month {
				return di.Month < dj.Month
			}
			return di.Day < dj.Day
		}
		if bs[i].Start != bs[j].Start {
			return bs[i].Start < bs[j].Start
		}
		return bs[i].ID < bs[j].ID
	})
}
