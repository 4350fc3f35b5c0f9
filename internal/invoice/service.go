package invoice

import (
	"context"
	"fmt"

	"github.com/odontosoft/clinic-scheduling/internal/clinic"
	"github.com/odontosoft/clinic-scheduling/internal/metrics"
	"github.com/odontosoft/clinic-scheduling/internal/timefmt"
)

// ValidationError reports a missing or malformed invoice field.
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
	metrics  *metrics.ClinicMetrics
}

func NewService(repo Repository, registry *clinic.Registry, m *metrics.ClinicMetrics) *Service {
	return &Service{repo: repo, registry: registry, metrics: m}
}

type CreateInput struct {
	ID        string
	PatientID string
	Lines     []Line
	IssuedOn  timefmt.Date
	Status    PaymentStatus
}

// Create validates the invoice and appends it to the set. No partial
// invoice is ever stored.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Invoice, error) {
	if in.ID == "" {
		return nil, invalid("id", "is required")
	}
	if in.PatientID == "" {
		return nil, invalid("patient_id", "is required")
	}
	if _, err := s.registry.GetPatient(in.PatientID); err != nil {
		return nil, err
	}
	if in.IssuedOn.IsZero() {
		return nil, invalid("issued_on", "is required")
	}
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = PaymentPending
	}
	if !in.Status.Valid() {
		return nil, invalid("status", fmt.Sprintf("unknown payment status %q", in.Status))
	}

	inv := Invoice{
		ID:        in.ID,
		PatientID: in.PatientID,
		Lines:     in.Lines,
		IssuedOn:  in.IssuedOn,
		Status:    in.Status,
	}
	if err := s.repo.Insert(ctx, &inv); err != nil {
		return nil, err
	}

	s.metrics.ObserveInvoiceIssued()
	return &inv, nil
}

// AddLine appends a billed line to an existing invoice. The append is
// atomic in the store and the total is re-derived from the lines on
// every read, so it moves by exactly the appended amount even under
// concurrent appends.
func (s *Service) AddLine(ctx context.Context, id string, line Line) (*Invoice, error) {
	if err := validateLines([]Line{line}); err != nil {
		return nil, err
	}
	return s.repo.AppendLine(ctx, id, line)
}

func (s *Service) Get(ctx context.Context, id string) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Invoice, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]Invoice, error) {
	if _, err := s.registry.GetPatient(patientID); err != nil {
		return nil, err
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func validateLines(lines []Line) error {
	if len(lines) == 0 {
		return invalid("lines", "at least one service line is required")
	}
	for i, l := range lines {
		if l.Description == "" {
			return invalid("lines", fmt.Sprintf("line %d: description is required", i+1))
		}
		if l.Amount <= 0 {
			return invalid("lines", fmt.Sprintf("line %d: amount must be greater than zero", i+1))
		}
	}
	return nil
}
