package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odontosoft/clinic-scheduling/internal/timefmt"
)

func TestMemoryRepositoryCRUD(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	day := timefmt.Date{Year: 2025, Month: time.June, Day: 2}

	b := &Booking{
		ID:       "A1",
		Kind:     KindAppointment,
		DoctorID: "D001",
		Day:      day,
		Start:    540,
		End:      600,
		Status:   StatusPending,
	}
	require.NoError(t, repo.Insert(ctx, b))
	assert.False(t, b.CreatedAt.IsZero())

	assert.ErrorIs(t, repo.Insert(ctx, b), ErrDuplicateID)

	got, err := repo.Get(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	got.Status = StatusConfirmed
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.Get(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)

	assert.ErrorIs(t, repo.Update(ctx, &Booking{ID: "missing"}), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "A1"))
	assert.ErrorIs(t, repo.Delete(ctx, "A1"), ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	b := &Booking{
		ID:       "A1",
		Kind:     KindAppointment,
		DoctorID: "D001",
		Day:      timefmt.Date{Year: 2025, Month: time.June, Day: 2},
		Start:    540,
		End:      600,
		Status:   StatusPending,
	}
	require.NoError(t, repo.Insert(ctx, b))

	got, changed, err := repo.UpdateStatus(ctx, "A1", StatusConfirmed, StatusPending)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusConfirmed, got.Status)

	// Same target status again: allowed but unchanged.
	got, changed, err = repo.UpdateStatus(ctx, "A1", StatusConfirmed, StatusConfirmed)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, StatusConfirmed, got.Status)

	// Current status outside the from list is rejected and nothing moves.
	_, _, err = repo.UpdateStatus(ctx, "A1", StatusNoShow, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	got, err = repo.Get(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)

	_, _, err = repo.UpdateStatus(ctx, "missing", StatusConfirmed, StatusPending)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateSchedule(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	monday := timefmt.Date{Year: 2025, Month: time.June, Day: 2}
	tuesday := timefmt.Date{Year: 2025, Month: time.June, Day: 3}

	b := &Booking{
		ID:       "A1",
		Kind:     KindAppointment,
		DoctorID: "D001",
		Day:      monday,
		Start:    540,
		End:      600,
		Status:   StatusConfirmed,
	}
	require.NoError(t, repo.Insert(ctx, b))

	got, err := repo.UpdateSchedule(ctx, "A1", tuesday, Interval{Start: 600, End: 660})
	require.NoError(t, err)
	assert.Equal(t, tuesday, got.Day)
	assert.Equal(t, timefmt.TimeOfDay(600), got.Start)
	assert.Equal(t, StatusConfirmed, got.Status, "status is untouched")

	_, _, err = repo.UpdateStatus(ctx, "A1", StatusCancelled, StatusConfirmed)
	require.NoError(t, err)

	_, err = repo.UpdateSchedule(ctx, "A1", monday, Interval{Start: 540, End: 600})
	assert.ErrorIs(t, err, ErrNotReschedulable)

	_, err = repo.UpdateSchedule(ctx, "missing", monday, Interval{Start: 540, End: 600})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListActiveByDoctorDay(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	monday := timefmt.Date{Year: 2025, Month: time.June, Day: 2}
	tuesday := timefmt.Date{Year: 2025, Month: time.June, Day: 3}

	seed := []Booking{
		{ID: "A1", DoctorID: "D001", Day: monday, Start: 600, End: 660, Status: StatusPending},
		{ID: "A2", DoctorID: "D001", Day: monday, Start: 540, End: 600, Status: StatusConfirmed},
		{ID: "A3", DoctorID: "D001", Day: monday, Start: 660, End: 720, Status: StatusCancelled},
		{ID: "A4", DoctorID: "D001", Day: tuesday, Start: 540, End: 600, Status: StatusPending},
		{ID: "A5", DoctorID: "D002", Day: monday, Start: 540, End: 600, Status: StatusPending},
	}
	for i := range seed {
		require.NoError(t, repo.Insert(ctx, &seed[i]))
	}

	got, err := repo.ListActiveByDoctorDay(ctx, "D001", monday)
	require.NoError(t, err)
	require.Len(t, got, 2, "cancelled and off-day bookings are excluded")
	assert.Equal(t, "A2", got[0].ID, "sorted by start time")
	assert.Equal(t, "A1", got[1].ID)

	byDoctor, err := repo.ListByDoctor(ctx, "D001")
	require.NoError(t, err)
	assert.Len(t, byDoctor, 4, "ListByDoctor keeps cancelled records")

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestEventLogOrdering(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.InsertEvent(ctx, EventLog{EventType: EventBookingCreated, BookingID: "A1"}))
	require.NoError(t, repo.InsertEvent(ctx, EventLog{EventType: EventBookingCancelled, BookingID: "A1"}))

	events, err := repo.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].ID)
	assert.Equal(t, int64(2), events[1].ID)
	assert.Equal(t, EventBookingCreated, events[0].EventType)
	assert.False(t, events[0].CreatedAt.IsZero())
}
