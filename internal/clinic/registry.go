package clinic

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrPatientNotFound   = errors.New("patient not found")
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrTreatmentNotFound = errors.New("treatment not found")
)

// Registry holds the clinic's loaded reference set: patients, doctors
// and treatments, keyed by their caller-assigned identifiers. It is the
// single owner of this data; records are added at intake and read-only
// afterwards.
type Registry struct {
	mu         sync.RWMutex
	patients   map[string]Patient
	doctors    map[string]Doctor
	treatments map[string]Treatment
}

func NewRegistry() *Registry {
	return &Registry{
		patients:   make(map[string]Patient),
		doctors:    make(map[string]Doctor),
		treatments: make(map[string]Treatment),
	}
}

func (r *Registry) AddPatient(p Patient) error {
	if p.ID == "" {
		return errors.New("patient id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.patients[p.ID]; exists {
		return fmt.Errorf("patient %s already registered", p.ID)
	}
	r.patients[p.ID] = p
	return nil
}

func (r *Registry) AddDoctor(d Doctor) error {
	if d.ID == "" {
		return errors.New("doctor id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.doctors[d.ID]; exists {
		return fmt.Errorf("doctor %s already registered", d.ID)
	}
	r.doctors[d.ID] = d
	return nil
}

func (r *Registry) AddTreatment(t Treatment) error {
	if t.ID == "" {
		return errors.New("treatment id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.treatments[t.ID]; exists {
		return fmt.Errorf("treatment %s already registered", t.ID)
	}
	r.treatments[t.ID] = t
	return nil
}

func (r *Registry) GetPatient(id string) (Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.patients[id]
	if !ok {
		return Patient{}, ErrPatientNotFound
	}
	return p, nil
}

func (r *Registry) GetDoctor(id string) (Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.doctors[id]
	if !ok {
		return Doctor{}, ErrDoctorNotFound
	}
	return d, nil
}

func (r *Registry) GetTreatment(id string) (Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.treatments[id]
	if !ok {
		return Treatment{}, ErrTreatmentNotFound
	}
	return t, nil
}

func (r *Registry) ListPatients() []Patient {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Patient, 0, len(r.patients))
	for _, p := range r.patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) ListDoctors() []Doctor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) ListTreatments() []Treatment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Treatment, 0, len(r.treatments))
	for _, t := range r.treatments {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
