package clinic

import (
	"github.com/odontosoft/clinic-scheduling/internal/money"
	"github.com/odontosoft/clinic-scheduling/internal/timefmt"
)

// Patient is reference data created once at intake and never mutated by
// the booking or billing flows.
type Patient struct {
	ID         string `json:"id"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Age        int    `json:"age,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`
}

type Doctor struct {
	ID         string `json:"id"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Specialty  string `json:"specialty,omitempty"`
}

// Treatment is a pure value record; it is consumed by the amount-due
// computation and never goes through a lifecycle of its own.
type Treatment struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Cost        money.Amount `json:"cost"`
	Date        timefmt.Date `json:"date"`
	Status      string       `json:"status,omitempty"`
	DoctorID    string       `json:"doctor_id"`
	PatientID   string       `json:"patient_id"`
}
