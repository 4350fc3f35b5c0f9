package invoice

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("invoice not found")
	ErrDuplicateID = errors.New("invoice id already exists")
)

type Repository interface {
	Insert(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error

	// AppendLine adds a line to the stored record under the write lock,
	// so concurrent appends to one invoice cannot lose each other.
	AppendLine(ctx context.Context, id string, line Line) (*Invoice, error)
	List(ctx context.Context) ([]Invoice, error)
	ListByPatient(ctx context.Context, patientID string) ([]Invoice, error)
}
