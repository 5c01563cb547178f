package directory

import (
	"context"
	"fmt"
)

func ptr[T any](v T) *T { return &v }

// Seed loads the sample directory: two hospitals, three doctors assigned to
// them and two patients.
func Seed(ctx context.Context, s *Service) error {
	cityGeneral := &Hospital{
		Name:           "City General Hospital",
		Address:        "123 Medical Center Drive",
		City:           "New York",
		State:          "NY",
		ZipCode:        ptr("10001"),
		Country:        "USA",
		Phone:          ptr("+1-555-0100"),
		Email:          ptr("info@citygeneral.com"),
		EmergencyPhone: ptr("+1-555-0101"),
		HospitalType:   ptr("General"),
		TotalBeds:      ptr(500),
		ICUBeds:        ptr(50),
		Specialties:    []string{"Cardiology", "Emergency Medicine", "Surgery", "Pediatrics"},
		Facilities:     []string{"ICU", "Emergency", "Laboratory", "Pharmacy", "Radiology"},
		OperatingHours: ptr("24/7"),
		Website:        ptr("https://citygeneral.com"),
	}
	central := &Hospital{
		Name:           "Central Medical Center",
		Address:        "456 Health Boulevard",
		City:           "Los Angeles",
		State:          "CA",
		ZipCode:        ptr("90001"),
		Country:        "USA",
		Phone:          ptr("+1-555-0200"),
		Email:          ptr("contact@centralmed.com"),
		EmergencyPhone: ptr("+1-555-0201"),
		HospitalType:   ptr("Specialty"),
		TotalBeds:      ptr(300),
		ICUBeds:        ptr(30),
		Specialties:    []string{"Oncology", "Neurology", "Cardiology"},
		Facilities:     []string{"ICU", "Emergency", "Laboratory", "Pharmacy"},
		OperatingHours: ptr("24/7"),
		Website:        ptr("https://centralmed.com"),
	}
	for _, h := range []*Hospital{cityGeneral, central} {
		if err := s.CreateHospital(ctx, h); err != nil {
			return fmt.Errorf("seed hospital %q: %w", h.Name, err)
		}
	}

	doctors := []*Doctor{
		{
			FirstName:       "Sarah",
			LastName:        "Johnson",
			Specialization:  "Cardiology",
			Qualification:   "MD, FACC",
			LicenseNumber:   "MD-12345",
			Email:           ptr("sarah.johnson@citygeneral.com"),
			Phone:           ptr("+1-555-1001"),
			HospitalID:      ptr(cityGeneral.ID),
			Department:      ptr("Cardiology"),
			ExperienceYears: ptr(15),
			Languages:       []string{"English", "Spanish"},
			ConsultationFee: ptr(250.0),
			Availability:    AvailabilityAvailable,
		},
		{
			FirstName:       "Michael",
			LastName:        "Chen",
			Specialization:  "Emergency Medicine",
			Qualification:   "MD, FACEP",
			LicenseNumber:   "MD-12346",
			Email:           ptr("michael.chen@citygeneral.com"),
			Phone:           ptr("+1-555-1002"),
			HospitalID:      ptr(cityGeneral.ID),
			Department:      ptr("Emergency Medicine"),
			ExperienceYears: ptr(10),
			Languages:       []string{"English", "Mandarin"},
			ConsultationFee: ptr(200.0),
			Availability:    AvailabilityAvailable,
		},
		{
			FirstName:       "Emily",
			LastName:        "Rodriguez",
			Specialization:  "Pediatrics",
			Qualification:   "MD, FAAP",
			LicenseNumber:   "MD-12347",
			Email:           ptr("emily.rodriguez@centralmed.com"),
			Phone:           ptr("+1-555-2001"),
			HospitalID:      ptr(central.ID),
			Department:      ptr("Pediatrics"),
			ExperienceYears: ptr(8),
			Languages:       []string{"English", "Spanish"},
			ConsultationFee: ptr(180.0),
			Availability:    AvailabilityAvailable,
		},
	}
	for _, d := range doctors {
		if err := s.CreateDoctor(ctx, d); err != nil {
			return fmt.Errorf("seed doctor %s %s: %w", d.FirstName, d.LastName, err)
		}
	}

	patients := []*Patient{
		{
			FirstName:             "John",
			LastName:              "Doe",
			DateOfBirth:           "1985-05-15",
			Gender:                "M",
			Email:                 ptr("john.doe@email.com"),
			Phone:                 ptr("+1-555-3001"),
			Address:               ptr("789 Patient Street, New York, NY 10002"),
			EmergencyContactName:  ptr("Jane Doe"),
			EmergencyContactPhone: ptr("+1-555-3002"),
			BloodType:             ptr("O+"),
			Allergies:             []string{"Penicillin", "Peanuts"},
			MedicalHistory:        []string{"Hypertension", "Type 2 Diabetes"},
		},
		{
			FirstName:             "Maria",
			LastName:              "Garcia",
			DateOfBirth:           "1990-08-22",
			Gender:                "F",
			Email:                 ptr("maria.garcia@email.com"),
			Phone:                 ptr("+1-555-3003"),
			Address:               ptr("321 Health Avenue, Los Angeles, CA 90002"),
			EmergencyContactName:  ptr("Carlos Garcia"),
			EmergencyContactPhone: ptr("+1-555-3004"),
			BloodType:             ptr("A+"),
			Allergies:             []string{"Latex"},
			MedicalHistory:        []string{"Asthma"},
		},
	}
	for _, p := range patients {
		if err := s.CreatePatient(ctx, p); err != nil {
			return fmt.Errorf("seed patient %s %s: %w", p.FirstName, p.LastName, err)
		}
	}
	return nil
}

// NewMemoryService returns a service backed by fresh in-memory repositories.
func NewMemoryService() *Service {
	return NewService(NewPatientRepoMemory(), NewDoctorRepoMemory(), NewHospitalRepoMemory())
}
