package clinic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryPatients(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.AddPatient(Patient{ID: "P001", GivenName: "Ana", FamilyName: "Lopez"}))
	require.Error(t, reg.AddPatient(Patient{ID: "P001", GivenName: "Other"}), "duplicate id must be rejected")
	require.Error(t, reg.AddPatient(Patient{GivenName: "NoID"}))

	p, err := reg.GetPatient("P001")
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.GivenName)

	_, err = reg.GetPatient("P999")
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestRegistryDoctors(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.AddDoctor(Doctor{ID: "D001", GivenName: "Laura", FamilyName: "Perez", Specialty: "General Dentistry"}))
	require.Error(t, reg.AddDoctor(Doctor{ID: "D001"}))

	d, err := reg.GetDoctor("D001")
	require.NoError(t, err)
	assert.Equal(t, "General Dentistry", d.Specialty)

	_, err = reg.GetDoctor("D999")
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestRegistryTreatments(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.AddTreatment(Treatment{ID: "T001", Description: "Cleaning", Cost: 5000}))

	tr, err := reg.GetTreatment("T001")
	require.NoError(t, err)
	assert.Equal(t, "Cleaning", tr.Description)

	_, err = reg.GetTreatment("T999")
	assert.ErrorIs(t, err, ErrTreatmentNotFound)
}

func TestRegistryListsAreSorted(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddPatient(Patient{ID: "P002"}))
	require.NoError(t, reg.AddPatient(Patient{ID: "P001"}))
	require.NoError(t, reg.AddPatient(Patient{ID: "P003"}))

	got := reg.ListPatients()
	require.Len(t, got, 3)
	assert.Equal(t, "P001", got[0].ID)
	assert.Equal(t, "P002", got[1].ID)
	assert.Equal(t, "P003", got[2].ID)
}
