package invoice

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepository struct {
	mu       sync.RWMutex
	invoices map[string]Invoice
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{invoices: make(map[string]Invoice)}
}

func (r *MemoryRepository) Insert(_ context.Context, inv *Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.invoices[inv.ID]; exists {
		return ErrDuplicateID
	}
	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	r.invoices[inv.ID] = cloneInvoice(*inv)
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneInvoice(inv)
	return &out, nil
}

func (r *MemoryRepository) Update(_ context.Context, inv *Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[inv.ID]; !ok {
		return ErrNotFound
	}
	inv.UpdatedAt = time.Now()
	r.invoices[inv.ID] = cloneInvoice(*inv)
	return nil
}

func (r *MemoryRepository) AppendLine(_ context.Context, id string, line Line) (*Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}

	updated := cloneInvoice(inv)
	updated.Lines = append(updated.Lines, line)
	updated.UpdatedAt = time.Now()
	r.invoices[id] = updated

	out := cloneInvoice(updated)
	return &out, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, cloneInvoice(inv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) ListByPatient(_ context.Context, patientID string) ([]Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Invoice
	for _, inv := range r.invoices {
		if inv.PatientID == patientID {
			out = append(out, cloneInvoice(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// cloneInvoice copies the line slice so callers cannot mutate stored
// records behind the lock.
func cloneInvoice(inv Invoice) Invoice {
	lines := make([]Line, len(inv.Lines))
	copy(lines, inv.Lines)
	inv.Lines = lines
	return inv
}
