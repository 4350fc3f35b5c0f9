// Package seed populates the in-memory stores at process start: a fixed
// clinic roster plus generated demo patients. All of it is discarded at
// process exit.
package seed

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog/log"

	"github.com/odontosoft/clinic-scheduling/internal/clinic"
	"github.com/odontosoft/clinic-scheduling/internal/timefmt"
)

var doctors = []clinic.Doctor{
	{ID: "D001", GivenName: "Laura", FamilyName: "Perez", Specialty: "General Dentistry"},
	{ID: "D002", GivenName: "Hector", FamilyName: "Gomez", Specialty: "Orthodontics"},
	{ID: "D003", GivenName: "Marta", FamilyName: "Martinez", Specialty: "Maxillofacial Surgery"},
}

var treatments = []clinic.Treatment{
	{ID: "T001", Description: "Dental cleaning", Cost: 5000, Status: "scheduled", DoctorID: "D001", PatientID: "P001"},
	{ID: "T002", Description: "Molar extraction", Cost: 12000, Status: "scheduled", DoctorID: "D003", PatientID: "P002"},
	{ID: "T003", Description: "Panoramic X-ray", Cost: 3000, Status: "done", DoctorID: "D002", PatientID: "P001"},
}

// Load fills the registry with the fixed roster and patientCount
// generated demo patients.
func Load(reg *clinic.Registry, patientCount int) error {
	gofakeit.Seed(time.Now().UnixNano())

	for _, d := range doctors {
		if err := reg.AddDoctor(d); err != nil {
			return fmt.Errorf("seed doctor %s: %w", d.ID, err)
		}
	}

	log.Info().Int("count", patientCount).Msg("seeding demo patients")
	for i := 0; i < patientCount; i++ {
		p := clinic.Patient{
			ID:         fmt.Sprintf("P%03d", i+1),
			GivenName:  gofakeit.FirstName(),
			FamilyName: gofakeit.LastName(),
			Age:        gofakeit.Number(18, 85),
			Gender:     gofakeit.Gender(),
			Phone:      gofakeit.Phone(),
			Email:      gofakeit.Email(),
			Address:    gofakeit.Address().Address,
		}
		if err := reg.AddPatient(p); err != nil {
			return fmt.Errorf("seed patient %s: %w", p.ID, err)
		}
	}

	today := timefmt.DateOf(time.Now())
	for _, t := range treatments {
		t.Date = today
		if _, err := reg.GetPatient(t.PatientID); err != nil {
			// Roster treatments reference the first demo patients; skip
			// them when fewer were generated.
			continue
		}
		if err := reg.AddTreatment(t); err != nil {
			return fmt.Errorf("seed treatment %s: %w", t.ID, err)
		}
	}

	log.Info().
		Int("doctors", len(doctors)).
		Int("patients", patientCount).
		Msg("seed complete")
	return nil
}
