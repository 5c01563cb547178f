package directory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/intenthealth/platform/pkg/pagination"
)

// table is an insertion-ordered map guarded by a RWMutex. Rows are cloned on
// the way in and out so callers never share memory with stored rows.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[uuid.UUID]*T
	order []uuid.UUID
	clone func(*T) *T
}

func newTable[T any](clone func(*T) *T) *table[T] {
	return &table[T]{rows: make(map[uuid.UUID]*T), clone: clone}
}

func (t *table[T]) insert(id uuid.UUID, v *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[id] = t.clone(v)
	t.order = append(t.order, id)
}

func (t *table[T]) get(id uuid.UUID) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t.clone(v), nil
}

func (t *table[T]) replace(id uuid.UUID, v *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return ErrNotFound
	}
	t.rows[id] = t.clone(v)
	return nil
}

func (t *table[T]) remove(id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return ErrNotFound
	}
	delete(t.rows, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

// filter returns one page of matching rows and the total match count.
func (t *table[T]) filter(match func(*T) bool, limit, offset int) ([]*T, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	matched := make([]*T, 0)
	for _, id := range t.order {
		if v := t.rows[id]; match == nil || match(v) {
			matched = append(matched, v)
		}
	}
	page := pagination.Window(matched, pagination.Params{Limit: limit, Offset: offset})
	out := make([]*T, len(page))
	for i, v := range page {
		out[i] = t.clone(v)
	}
	return out, len(matched)
}

// -- Patients --

type patientRepoMemory struct {
	t *table[Patient]
}

func NewPatientRepoMemory() PatientRepository {
	return &patientRepoMemory{t: newTable(clonePatient)}
}

func (r *patientRepoMemory) Create(_ context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.t.insert(p.ID, p)
	return nil
}

func (r *patientRepoMemory) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	return r.t.get(id)
}

func (r *patientRepoMemory) Update(_ context.Context, p *Patient) error {
	return r.t.replace(p.ID, p)
}

func (r *patientRepoMemory) Delete(_ context.Context, id uuid.UUID) error {
	return r.t.remove(id)
}

func (r *patientRepoMemory) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	items, total := r.t.filter(nil, limit, offset)
	return items, total, nil
}

func clonePatient(p *Patient) *Patient {
	cp := *p
	cp.Allergies = cloneStrings(p.Allergies)
	cp.MedicalHistory = cloneStrings(p.MedicalHistory)
	return &cp
}

// -- Doctors --

type doctorRepoMemory struct {
	t *table[Doctor]
}

func NewDoctorRepoMemory() DoctorRepository {
	return &doctorRepoMemory{t: newTable(cloneDoctor)}
}

func (r *doctorRepoMemory) Create(_ context.Context, d *Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.t.insert(d.ID, d)
	return nil
}

func (r *doctorRepoMemory) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	return r.t.get(id)
}

func (r *doctorRepoMemory) Update(_ context.Context, d *Doctor) error {
	return r.t.replace(d.ID, d)
}

func (r *doctorRepoMemory) Delete(_ context.Context, id uuid.UUID) error {
	return r.t.remove(id)
}

func (r *doctorRepoMemory) List(_ context.Context, limit, offset int) ([]*Doctor, int, error) {
	items, total := r.t.filter(nil, limit, offset)
	return items, total, nil
}

func (r *doctorRepoMemory) Search(_ context.Context, f DoctorFilter, limit, offset int) ([]*Doctor, int, error) {
	var match func(*Doctor) bool
	switch {
	case f.HospitalID != nil:
		match = func(d *Doctor) bool { return d.HospitalID != nil && *d.HospitalID == *f.HospitalID }
	case f.Specialization != "":
		match = func(d *Doctor) bool { return d.Specialization == f.Specialization }
	}
	items, total := r.t.filter(match, limit, offset)
	return items, total, nil
}

func cloneDoctor(d *Doctor) *Doctor {
	cp := *d
	cp.Languages = cloneStrings(d.Languages)
	return &cp
}

// -- Hospitals --

type hospitalRepoMemory struct {
	t *table[Hospital]
}

func NewHospitalRepoMemory() HospitalRepository {
	return &hospitalRepoMemory{t: newTable(cloneHospital)}
}

func (r *hospitalRepoMemory) Create(_ context.Context, h *Hospital) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	r.t.insert(h.ID, h)
	return nil
}

func (r *hospitalRepoMemory) GetByID(_ context.Context, id uuid.UUID) (*Hospital, error) {
	return r.t.get(id)
}

func (r *hospitalRepoMemory) Update(_ context.Context, h *Hospital) error {
	return r.t.replace(h.ID, h)
}

func (r *hospitalRepoMemory) Delete(_ context.Context, id uuid.UUID) error {
	return r.t.remove(id)
}

func (r *hospitalRepoMemory) List(_ context.Context, limit, offset int) ([]*Hospital, int, error) {
	items, total := r.t.filter(nil, limit, offset)
	return items, total, nil
}

func (r *hospitalRepoMemory) Search(_ context.Context, f HospitalFilter, limit, offset int) ([]*Hospital, int, error) {
	items, total := r.t.filter(f.match, limit, offset)
	return items, total, nil
}

func (f HospitalFilter) match(h *Hospital) bool {
	if f.City != "" && !strings.EqualFold(h.City, f.City) {
		return false
	}
	if f.State != "" && !strings.EqualFold(h.State, f.State) {
		return false
	}
	if f.Specialty != "" {
		for _, s := range h.Specialties {
			if strings.EqualFold(s, f.Specialty) {
				return true
			}
		}
		return false
	}
	return true
}

func cloneHospital(h *Hospital) *Hospital {
	cp := *h
	cp.Specialties = cloneStrings(h.Specialties)
	cp.Facilities = cloneStrings(h.Facilities)
	return &cp
}
