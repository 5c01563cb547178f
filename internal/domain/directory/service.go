package directory

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// ValidationError reports a missing or invalid field on a create or update.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func required(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

type Service struct {
	patients  PatientRepository
	doctors   DoctorRepository
	hospitals HospitalRepository
	now       func() time.Time
}

func NewService(patients PatientRepository, doctors DoctorRepository, hospitals HospitalRepository) *Service {
	return &Service{patients: patients, doctors: doctors, hospitals: hospitals, now: time.Now}
}

func (s *Service) stamp(created, updated *time.Time) {
	now := s.now().UTC()
	if created != nil {
		*created = now
	}
	*updated = now
}

// -- Patients --

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.FirstName == "" {
		return required("first_name")
	}
	if p.LastName == "" {
		return required("last_name")
	}
	if p.DateOfBirth == "" {
		return required("date_of_birth")
	}
	if _, err := time.Parse("2006-01-02", p.DateOfBirth); err != nil {
		return &ValidationError{Field: "date_of_birth", Reason: "must be a date in YYYY-MM-DD format"}
	}
	if p.Gender == "" {
		return required("gender")
	}
	if err := validateEmail(p.Email); err != nil {
		return err
	}
	p.ID = uuid.Nil
	p.Allergies = cloneStrings(p.Allergies)
	p.MedicalHistory = cloneStrings(p.MedicalHistory)
	s.stamp(&p.CreatedAt, &p.UpdatedAt)
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

// UpdatePatient merges the non-nil fields of u into the stored patient.
func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, u *PatientUpdate) (*Patient, error) {
	if err := validateEmail(u.Email); err != nil {
		return nil, err
	}
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.apply(p)
	s.stamp(nil, &p.UpdatedAt)
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

// -- Doctors --

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	switch {
	case d.FirstName == "":
		return required("first_name")
	case d.LastName == "":
		return required("last_name")
	case d.Specialization == "":
		return required("specialization")
	case d.Qualification == "":
		return required("qualification")
	case d.LicenseNumber == "":
		return required("license_number")
	}
	if err := validateEmail(d.Email); err != nil {
		return err
	}
	if err := s.checkHospital(ctx, d.HospitalID); err != nil {
		return err
	}
	if d.Availability == "" {
		d.Availability = AvailabilityAvailable
	}
	d.ID = uuid.Nil
	d.Languages = cloneStrings(d.Languages)
	s.stamp(&d.CreatedAt, &d.UpdatedAt)
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

// ListDoctors returns all doctors, or those matching f when a filter field is set.
func (s *Service) ListDoctors(ctx context.Context, f DoctorFilter, limit, offset int) ([]*Doctor, int, error) {
	if f.HospitalID == nil && f.Specialization == "" {
		return s.doctors.List(ctx, limit, offset)
	}
	return s.doctors.Search(ctx, f, limit, offset)
}

func (s *Service) UpdateDoctor(ctx context.Context, id uuid.UUID, u *DoctorUpdate) (*Doctor, error) {
	if err := s.checkHospital(ctx, u.HospitalID); err != nil {
		return nil, err
	}
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.apply(d)
	s.stamp(nil, &d.UpdatedAt)
	if err := s.doctors.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	return s.doctors.Delete(ctx, id)
}

func (s *Service) checkHospital(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.hospitals.GetByID(ctx, *id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return &ValidationError{Field: "hospital_id", Reason: "does not reference a known hospital"}
		}
		return err
	}
	return nil
}

// -- Hospitals --

func (s *Service) CreateHospital(ctx context.Context, h *Hospital) error {
	switch {
	case h.Name == "":
		return required("name")
	case h.Address == "":
		return required("address")
	case h.City == "":
		return required("city")
	case h.State == "":
		return required("state")
	}
	if err := validateEmail(h.Email); err != nil {
		return err
	}
	if h.Country == "" {
		h.Country = "USA"
	}
	h.ID = uuid.Nil
	h.Specialties = cloneStrings(h.Specialties)
	h.Facilities = cloneStrings(h.Facilities)
	s.stamp(&h.CreatedAt, &h.UpdatedAt)
	return s.hospitals.Create(ctx, h)
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.hospitals.GetByID(ctx, id)
}

func (s *Service) SearchHospitals(ctx context.Context, f HospitalFilter, limit, offset int) ([]*Hospital, int, error) {
	return s.hospitals.Search(ctx, f, limit, offset)
}

func (s *Service) UpdateHospital(ctx context.Context, id uuid.UUID, u *HospitalUpdate) (*Hospital, error) {
	if err := validateEmail(u.Email); err != nil {
		return nil, err
	}
	h, err := s.hospitals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.apply(h)
	s.stamp(nil, &h.UpdatedAt)
	if err := s.hospitals.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) DeleteHospital(ctx context.Context, id uuid.UUID) error {
	return s.hospitals.Delete(ctx, id)
}

func validateEmail(email *string) error {
	if email == nil || *email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(*email); err != nil {
		return &ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	return nil
}
