package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odontosoft/clinic-scheduling/internal/money"
	"github.com/odontosoft/clinic-scheduling/internal/timefmt"
)

func TestMemoryRepositoryUpdate(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	inv := &Invoice{
		ID:        "F1",
		PatientID: "P001",
		IssuedOn:  timefmt.Date{Year: 2025, Month: time.June, Day: 2},
		Status:    PaymentPending,
		Lines:     []Line{{Description: "Cleaning", Amount: 5000}},
	}
	require.NoError(t, repo.Insert(ctx, inv))
	assert.ErrorIs(t, repo.Insert(ctx, inv), ErrDuplicateID)

	got, err := repo.Get(ctx, "F1")
	require.NoError(t, err)
	got.Status = PaymentPaid
	require.NoError(t, repo.Update(ctx, got))

	stored, err := repo.Get(ctx, "F1")
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, stored.Status)

	assert.ErrorIs(t, repo.Update(ctx, &Invoice{ID: "missing"}), ErrNotFound)
	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendLineIsIsolatedFromCaller(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	inv := &Invoice{
		ID:        "F1",
		PatientID: "P001",
		IssuedOn:  timefmt.Date{Year: 2025, Month: time.June, Day: 2},
		Status:    PaymentPending,
		Lines:     []Line{{Description: "Cleaning", Amount: 5000}},
	}
	require.NoError(t, repo.Insert(ctx, inv))

	got, err := repo.AppendLine(ctx, "F1", Line{Description: "X-ray", Amount: 3000})
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)

	// Mutating the returned copy must not reach the store.
	got.Lines[0].Amount = 1

	stored, err := repo.Get(ctx, "F1")
	require.NoError(t, err)
	assert.Equal(t, money.Amount(5000), stored.Lines[0].Amount)

	_, err = repo.AppendLine(ctx, "missing", Line{Description: "X-ray", Amount: 3000})
	assert.ErrorIs(t, err, ErrNotFound)
}
