package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odontosoft/clinic-scheduling/internal/invoice"
	"github.com/odontosoft/clinic-scheduling/internal/money"
	"github.com/odontosoft/clinic-scheduling/internal/timefmt"
)

func createInvoiceHandler(svc *invoice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateInvoiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		issuedOn, err := timefmt.ParseDate(req.IssuedOn)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		lines, err := parseLines(req.Lines)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}

		inv, err := svc.Create(r.Context(), invoice.CreateInput{
			ID:        req.ID,
			PatientID: req.PatientID,
			Lines:     lines,
			IssuedOn:  issuedOn,
			Status:    invoice.PaymentStatus(req.Status),
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toInvoiceResponse(inv))
	}
}

func parseLines(inputs []InvoiceLineInput) ([]invoice.Line, error) {
	lines := make([]invoice.Line, 0, len(inputs))
	for _, in := range inputs {
		amount, err := money.Parse(in.Amount)
		if err != nil {
			return nil, err
		}
		lines = append(lines, invoice.Line{Description: in.Description, Amount: amount})
	}
	return lines, nil
}

func getInvoiceHandler(svc *invoice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
	}
}

func listInvoicesHandler(svc *invoice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			invoices []invoice.Invoice
			err      error
		)
		if patientID := r.URL.Query().Get("patient_id"); patientID != "" {
			invoices, err = svc.ListByPatient(r.Context(), patientID)
		} else {
			invoices, err = svc.List(r.Context())
		}
		if err != nil {
			handleDomainError(w, err)
			return
		}

		out := make([]InvoiceResponse, 0, len(invoices))
		for i := range invoices {
			out = append(out, toInvoiceResponse(&invoices[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func addInvoiceLineHandler(svc *invoice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req InvoiceLineInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		amount, err := money.Parse(req.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}

		inv, err := svc.AddLine(r.Context(), chi.URLParam(r, "id"), invoice.Line{
			Description: req.Description,
			Amount:      amount,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
	}
}
