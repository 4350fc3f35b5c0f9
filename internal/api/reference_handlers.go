package api

import (
	"net/http"

	"github.com/odontosoft/clinic-scheduling/internal/clinic"
)

func listPatientsHandler(reg *clinic.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, reg.ListPatients())
	}
}

func listDoctorsHandler(reg *clinic.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, reg.ListDoctors())
	}
}

func listTreatmentsHandler(reg *clinic.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, reg.ListTreatments())
	}
}
