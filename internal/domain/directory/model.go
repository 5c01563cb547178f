package directory

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a registered patient. DateOfBirth is a calendar date (YYYY-MM-DD).
type Patient struct {
	ID                    uuid.UUID `json:"id"`
	FirstName             string    `json:"first_name"`
	LastName              string    `json:"last_name"`
	DateOfBirth           string    `json:"date_of_birth"`
	Gender                string    `json:"gender"`
	Email                 *string   `json:"email,omitempty"`
	Phone                 *string   `json:"phone,omitempty"`
	Address               *string   `json:"address,omitempty"`
	EmergencyContactName  *string   `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string   `json:"emergency_contact_phone,omitempty"`
	BloodType             *string   `json:"blood_type,omitempty"`
	Allergies             []string  `json:"allergies"`
	MedicalHistory        []string  `json:"medical_history"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// PatientUpdate is a partial update; nil fields are left unchanged.
type PatientUpdate struct {
	FirstName             *string   `json:"first_name"`
	LastName              *string   `json:"last_name"`
	Email                 *string   `json:"email"`
	Phone                 *string   `json:"phone"`
	Address               *string   `json:"address"`
	EmergencyContactName  *string   `json:"emergency_contact_name"`
	EmergencyContactPhone *string   `json:"emergency_contact_phone"`
	BloodType             *string   `json:"blood_type"`
	Allergies             *[]string `json:"allergies"`
	MedicalHistory        *[]string `json:"medical_history"`
}

func (u *PatientUpdate) apply(p *Patient) {
	setString(&p.FirstName, u.FirstName)
	setString(&p.LastName, u.LastName)
	setOptional(&p.Email, u.Email)
	setOptional(&p.Phone, u.Phone)
	setOptional(&p.Address, u.Address)
	setOptional(&p.EmergencyContactName, u.EmergencyContactName)
	setOptional(&p.EmergencyContactPhone, u.EmergencyContactPhone)
	setOptional(&p.BloodType, u.BloodType)
	setList(&p.Allergies, u.Allergies)
	setList(&p.MedicalHistory, u.MedicalHistory)
}

// Doctor availability values.
const (
	AvailabilityAvailable = "Available"
	AvailabilityBusy      = "Busy"
	AvailabilityOnLeave   = "On Leave"
)

type Doctor struct {
	ID              uuid.UUID  `json:"id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Specialization  string     `json:"specialization"`
	Qualification   string     `json:"qualification"`
	LicenseNumber   string     `json:"license_number"`
	Email           *string    `json:"email,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	HospitalID      *uuid.UUID `json:"hospital_id,omitempty"`
	Department      *string    `json:"department,omitempty"`
	ExperienceYears *int       `json:"experience_years,omitempty"`
	Languages       []string   `json:"languages"`
	ConsultationFee *float64   `json:"consultation_fee,omitempty"`
	Availability    string     `json:"availability"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DoctorUpdate is a partial update; nil fields are left unchanged.
type DoctorUpdate struct {
	FirstName       *string    `json:"first_name"`
	LastName        *string    `json:"last_name"`
	Specialization  *string    `json:"specialization"`
	Phone           *string    `json:"phone"`
	HospitalID      *uuid.UUID `json:"hospital_id"`
	Department      *string    `json:"department"`
	ExperienceYears *int       `json:"experience_years"`
	Languages       *[]string  `json:"languages"`
	ConsultationFee *float64   `json:"consultation_fee"`
	Availability    *string    `json:"availability"`
}

func (u *DoctorUpdate) apply(d *Doctor) {
	setString(&d.FirstName, u.FirstName)
	setString(&d.LastName, u.LastName)
	setString(&d.Specialization, u.Specialization)
	setOptional(&d.Phone, u.Phone)
	if u.HospitalID != nil {
		id := *u.HospitalID
		d.HospitalID = &id
	}
	setOptional(&d.Department, u.Department)
	if u.ExperienceYears != nil {
		v := *u.ExperienceYears
		d.ExperienceYears = &v
	}
	setList(&d.Languages, u.Languages)
	if u.ConsultationFee != nil {
		v := *u.ConsultationFee
		d.ConsultationFee = &v
	}
	setString(&d.Availability, u.Availability)
}

// DoctorFilter narrows doctor listings. HospitalID takes precedence over
// Specialization when both are set.
type DoctorFilter struct {
	HospitalID     *uuid.UUID
	Specialization string
}

type Hospital struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	ZipCode        *string   `json:"zip_code,omitempty"`
	Country        string    `json:"country"`
	Phone          *string   `json:"phone,omitempty"`
	Email          *string   `json:"email,omitempty"`
	EmergencyPhone *string   `json:"emergency_phone,omitempty"`
	HospitalType   *string   `json:"hospital_type,omitempty"`
	TotalBeds      *int      `json:"total_beds,omitempty"`
	ICUBeds        *int      `json:"icu_beds,omitempty"`
	Specialties    []string  `json:"specialties"`
	Facilities     []string  `json:"facilities"`
	OperatingHours *string   `json:"operating_hours,omitempty"`
	Website        *string   `json:"website,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HospitalUpdate is a partial update; nil fields are left unchanged.
type HospitalUpdate struct {
	Name           *string   `json:"name"`
	Address        *string   `json:"address"`
	City           *string   `json:"city"`
	State          *string   `json:"state"`
	ZipCode        *string   `json:"zip_code"`
	Phone          *string   `json:"phone"`
	Email          *string   `json:"email"`
	EmergencyPhone *string   `json:"emergency_phone"`
	HospitalType   *string   `json:"hospital_type"`
	TotalBeds      *int      `json:"total_beds"`
	ICUBeds        *int      `json:"icu_beds"`
	Specialties    *[]string `json:"specialties"`
	Facilities     *[]string `json:"facilities"`
	OperatingHours *string   `json:"operating_hours"`
	Website        *string   `json:"website"`
}

func (u *HospitalUpdate) apply(h *Hospital) {
	setString(&h.Name, u.Name)
	setString(&h.Address, u.Address)
	setString(&h.City, u.City)
	setString(&h.State, u.State)
	setOptional(&h.ZipCode, u.ZipCode)
	setOptional(&h.Phone, u.Phone)
	setOptional(&h.Email, u.Email)
	setOptional(&h.EmergencyPhone, u.EmergencyPhone)
	setOptional(&h.HospitalType, u.HospitalType)
	if u.TotalBeds != nil {
		v := *u.TotalBeds
		h.TotalBeds = &v
	}
	if u.ICUBeds != nil {
		v := *u.ICUBeds
		h.ICUBeds = &v
	}
	setList(&h.Specialties, u.Specialties)
	setList(&h.Facilities, u.Facilities)
	setOptional(&h.OperatingHours, u.OperatingHours)
	setOptional(&h.Website, u.Website)
}

// HospitalFilter narrows hospital searches. City and State match
// case-insensitively; Specialty matches any listed specialty
// case-insensitively. Set fields are combined with AND.
type HospitalFilter struct {
	City      string
	State     string
	Specialty string
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setOptional(dst **string, v *string) {
	if v != nil {
		s := *v
		*dst = &s
	}
}

func setList(dst *[]string, v *[]string) {
	if v != nil {
		*dst = cloneStrings(*v)
	}
}

// cloneStrings copies s, returning an empty non-nil slice for nil input so
// lists encode as [] rather than null.
func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
