package intent

// Name identifies an intent. The set of names is closed; see AllNames.
type Name string

// Patient self-service intents.
const (
	PatientEmergencyHelp          Name = "PATIENT_EMERGENCY_HELP"
	PatientSymptomReport          Name = "PATIENT_SYMPTOM_REPORT"
	ScheduleAppointment           Name = "SCHEDULE_APPOINTMENT"
	CancelAppointment             Name = "CANCEL_APPOINTMENT"
	RescheduleAppointment         Name = "RESCHEDULE_APPOINTMENT"
	RequestPrescriptionRefill     Name = "REQUEST_PRESCRIPTION_REFILL"
	ViewPrescriptions             Name = "VIEW_PRESCRIPTIONS"
	ViewLabResults                Name = "VIEW_LAB_RESULTS"
	RequestTelehealthConsultation Name = "REQUEST_TELEHEALTH_CONSULTATION"
	ViewMedicalRecords            Name = "VIEW_MEDICAL_RECORDS"
	HealthQuery                   Name = "HEALTH_QUERY"
)

// Clinician intents.
const (
	ClinicalPrescriptionRequest Name = "CLINICAL_PRESCRIPTION_REQUEST"
	ClinicalDiagnosis           Name = "CLINICAL_DIAGNOSIS"
	ClinicalOrderLab            Name = "CLINICAL_ORDER_LAB"
	ClinicalViewPatientRecords  Name = "CLINICAL_VIEW_PATIENT_RECORDS"
	ClinicalUpdateRecords       Name = "CLINICAL_UPDATE_RECORDS"
)

// Admin intents.
const (
	AdminManageUsers   Name = "ADMIN_MANAGE_USERS"
	AdminViewAnalytics Name = "ADMIN_VIEW_ANALYTICS"
	AdminSystemConfig  Name = "ADMIN_SYSTEM_CONFIG"
)

var (
	patientIntents = []Name{
		PatientEmergencyHelp, PatientSymptomReport,
		ScheduleAppointment, CancelAppointment, RescheduleAppointment,
		RequestPrescriptionRefill, ViewPrescriptions, ViewLabResults,
		RequestTelehealthConsultation, ViewMedicalRecords, HealthQuery,
	}
	clinicianIntents = []Name{
		ClinicalPrescriptionRequest, ClinicalDiagnosis, ClinicalOrderLab,
		ClinicalViewPatientRecords, ClinicalUpdateRecords,
	}
	adminIntents = []Name{
		AdminManageUsers, AdminViewAnalytics, AdminSystemConfig,
	}
)

// AllNames returns every known intent name.
func AllNames() []Name {
	out := make([]Name, 0, len(patientIntents)+len(clinicianIntents)+len(adminIntents))
	out = append(out, patientIntents...)
	out = append(out, clinicianIntents...)
	return append(out, adminIntents...)
}

// Role is the type of actor issuing an intent.
type Role string

const (
	RolePatient   Role = "PATIENT"
	RoleClinician Role = "CLINICIAN"
	RoleDoctor    Role = "DOCTOR"
	RoleAdmin     Role = "ADMIN"
)

// Request is a decoded intent execution request.
type Request struct {
	Intent  Name
	Actor   Role
	Payload map[string]interface{}
	// Raw is the full request body. It is what gets persisted, so top-level
	// fields such as patient_id stay visible to event filters.
	Raw map[string]interface{}
}

// Validate checks the fields required before enforcement can run.
func (r *Request) Validate() error {
	if r.Intent == "" {
		return &MalformedRequestError{Field: "intent.name"}
	}
	if r.Actor == "" {
		return &MalformedRequestError{Field: "actor.type"}
	}
	return nil
}

// RequestFromMap extracts intent.name, actor.type and payload from a decoded
// JSON body. A missing or wrongly shaped intent or actor is a
// MalformedRequestError; a missing payload is treated as empty.
func RequestFromMap(m map[string]interface{}) (*Request, error) {
	name, err := nestedString(m, "intent", "name")
	if err != nil {
		return nil, err
	}
	actor, err := nestedString(m, "actor", "type")
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{}
	if p, ok := m["payload"]; ok && p != nil {
		pm, ok := p.(map[string]interface{})
		if !ok {
			return nil, &MalformedRequestError{Field: "payload"}
		}
		payload = pm
	}

	req := &Request{Intent: Name(name), Actor: Role(actor), Payload: payload, Raw: m}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func nestedString(m map[string]interface{}, obj, key string) (string, error) {
	field := obj + "." + key
	o, ok := m[obj].(map[string]interface{})
	if !ok {
		return "", &MalformedRequestError{Field: field}
	}
	s, ok := o[key].(string)
	if !ok || s == "" {
		return "", &MalformedRequestError{Field: field}
	}
	return s, nil
}

// Response is the intent-specific result mapping. Every response carries a
// "status" key.
type Response map[string]interface{}

// Status returns the response's status string.
func (r Response) Status() string {
	s, _ := r["status"].(string)
	return s
}
