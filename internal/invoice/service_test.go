package invoice

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odontosoft/clinic-scheduling/internal/clinic"
	"github.com/odontosoft/clinic-scheduling/internal/timefmt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	reg := clinic.NewRegistry()
	require.NoError(t, reg.AddPatient(clinic.Patient{ID: "P001", GivenName: "Ana", FamilyName: "Lopez"}))
	return NewService(NewMemoryRepository(), reg, nil)
}

func invoiceInput(id string) CreateInput {
	return CreateInput{
		ID:        id,
		PatientID: "P001",
		IssuedOn:  timefmt.Date{Year: 2025, Month: time.June, Day: 2},
		Lines: []Line{
			{Description: "Cleaning", Amount: 5000},
			{Description: "X-ray", Amount: 3000},
		},
	}
}

func TestCreateInvoiceTotal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	inv, err := svc.Create(ctx, invoiceInput("F1"))
	require.NoError(t, err)
	assert.Equal(t, PaymentPending, inv.Status, "status defaults to pending")
	assert.Equal(t, "80.00", inv.Total().String())

	got, err := svc.Get(ctx, "F1")
	require.NoError(t, err)
	assert.Equal(t, "80.00", got.Total().String())
}

func TestCreateInvoiceValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing id", func(in *CreateInput) { in.ID = "" }},
		{"missing patient", func(in *CreateInput) { in.PatientID = "" }},
		{"missing issue date", func(in *CreateInput) { in.IssuedOn = timefmt.Date{} }},
		{"no lines", func(in *CreateInput) { in.Lines = nil }},
		{"empty description", func(in *CreateInput) { in.Lines[0].Description = "" }},
		{"zero amount", func(in *CreateInput) { in.Lines[1].Amount = 0 }},
		{"negative amount", func(in *CreateInput) { in.Lines[1].Amount = -100 }},
		{"unknown status", func(in *CreateInput) { in.Status = "refunded" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := invoiceInput("FX")
			tt.mutate(&in)

			_, err := svc.Create(ctx, in)
			require.Error(t, err)

			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "no partial invoice is stored")
}

func TestCreateInvoiceUnknownPatient(t *testing.T) {
	svc := newTestService(t)

	in := invoiceInput("F1")
	in.PatientID = "P999"
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, clinic.ErrPatientNotFound)
}

func TestCreateInvoiceDuplicateID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, invoiceInput("F1"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, invoiceInput("F1"))
	assert.ErrorIs(t, err, ErrDuplicateID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAddLine(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, invoiceInput("F1"))
	require.NoError(t, err)

	inv, err := svc.AddLine(ctx, "F1", Line{Description: "Filling", Amount: 2550})
	require.NoError(t, err)
	assert.Equal(t, "105.50", inv.Total().String(), "total moves by exactly the appended amount")
	require.Len(t, inv.Lines, 3)

	_, err = svc.AddLine(ctx, "F1", Line{Description: "", Amount: 100})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.AddLine(ctx, "missing", Line{Description: "Filling", Amount: 100})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentAddLinesAllLand(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, invoiceInput("F1"))
	require.NoError(t, err)

	const appends = 20
	var wg sync.WaitGroup
	for i := 0; i < appends; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.AddLine(ctx, "F1", Line{
				Description: fmt.Sprintf("Follow-up %d", n),
				Amount:      100,
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := svc.Get(ctx, "F1")
	require.NoError(t, err)
	assert.Len(t, got.Lines, 2+appends, "every appended line must survive")
	assert.Equal(t, "100.00", got.Total().String())
}

func TestListByPatient(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, invoiceInput("F1"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, invoiceInput("F2"))
	require.NoError(t, err)

	got, err := svc.ListByPatient(ctx, "P001")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = svc.ListByPatient(ctx, "P999")
	assert.ErrorIs(t, err, clinic.ErrPatientNotFound)
}

func TestStoredInvoiceIsIsolated(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, invoiceInput("F1"))
	require.NoError(t, err)

	// Mutating a returned copy must not reach the store.
	created.Lines[0].Amount = 999999

	got, err := svc.Get(ctx, "F1")
	require.NoError(t, err)
	assert.Equal(t, "80.00", got.Total().String())
}
