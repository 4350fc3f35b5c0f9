package api

import (
	"github.com/odontosoft/clinic-scheduling/internal/invoice"
	"github.com/odontosoft/clinic-scheduling/internal/money"
	"github.com/odontosoft/clinic-scheduling/internal/timefmt"
)

// CreateBookingRequest carries the raw field values from the booking
// form: DD/MM/YYYY day, HH:MM times, decimal cost string. Everything is
// parsed strictly before the service sees it.
type CreateBookingRequest struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	DoctorID    string `json:"doctor_id"`
	PatientID   string `json:"patient_id,omitempty"`
	TreatmentID string `json:"treatment_id,omitempty"`
	Day         string `json:"day"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Cost        string `json:"cost,omitempty"`
}

type RescheduleBookingRequest struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type CreateInvoiceRequest struct {
	ID        string             `json:"id"`
	PatientID string             `json:"patient_id"`
	IssuedOn  string             `json:"issued_on"`
	Status    string             `json:"status,omitempty"`
	Lines     []InvoiceLineInput `json:"lines"`
}

type InvoiceLineInput struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

type InvoiceResponse struct {
	ID        string         `json:"id"`
	PatientID string         `json:"patient_id"`
	Lines     []invoice.Line `json:"lines"`
	IssuedOn  timefmt.Date   `json:"issued_on"`
	Status    string         `json:"status"`
	Total     money.Amount   `json:"total"`
}

func toInvoiceResponse(inv *invoice.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:        inv.ID,
		PatientID: inv.PatientID,
		Lines:     inv.Lines,
		IssuedOn:  inv.IssuedOn,
		Status:    string(inv.Status),
		Total:     inv.Total(),
	}
}
