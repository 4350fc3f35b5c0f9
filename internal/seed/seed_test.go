package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odontosoft/clinic-scheduling/internal/clinic"
)

func TestLoad(t *testing.T) {
	reg := clinic.NewRegistry()
	require.NoError(t, Load(reg, 5))

	assert.Len(t, reg.ListDoctors(), 3)
	assert.Len(t, reg.ListPatients(), 5)
	assert.Len(t, reg.ListTreatments(), 3)

	p, err := reg.GetPatient("P001")
	require.NoError(t, err)
	assert.NotEmpty(t, p.GivenName)

	tr, err := reg.GetTreatment("T001")
	require.NoError(t, err)
	assert.False(t, tr.Date.IsZero())
}

func TestLoadSkipsTreatmentsWithoutPatients(t *testing.T) {
	reg := clinic.NewRegistry()
	require.NoError(t, Load(reg, 1))

	// T002 references P002, which was not generated.
	assert.Len(t, reg.ListTreatments(), 2)

	reg = clinic.NewRegistry()
	require.NoError(t, Load(reg, 0))
	assert.Empty(t, reg.ListTreatments())
	assert.Empty(t, reg.ListPatients())
	assert.Len(t, reg.ListDoctors(), 3)
}
