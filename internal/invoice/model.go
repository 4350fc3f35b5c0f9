package invoice

import (
	"time"

	"github.com/odontosoft/clinic-scheduling/internal/money"
	"github.com/odontosoft/clinic-scheduling/internal/timefmt"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentCancelled:
		return true
	}
	return false
}

// Line is one billed service on an invoice.
type Line struct {
	Description string       `json:"description"`
	Amount      money.Amount `json:"amount"`
}

// Invoice is an ordered list of billed lines for one patient. The total
// is always derived from the current lines, never stored alongside them.
type Invoice struct {
	ID        string        `json:"id"`
	PatientID string        `json:"patient_id"`
	Lines     []Line        `json:"lines"`
	IssuedOn  timefmt.Date  `json:"issued_on"`
	Status    PaymentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Total recomputes the invoice total as the sum of the current line
// amounts.
func (inv Invoice) Total() money.Amount {
	var total money.Amount
	for _, l := range inv.Lines {
		total += l.Amount
	}
	return total
}
