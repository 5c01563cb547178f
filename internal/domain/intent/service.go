package intent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/intenthealth/platform/internal/platform/eventstore"
)

// EventWriter is the part of the event store the dispatcher uses. Handlers
// only append; none of them read.
type EventWriter interface {
	Persist(ctx context.Context, resourceType string, data map[string]interface{}) (*eventstore.Record, error)
}

// Hooks lets callers observe dispatch outcomes. Nil fields are skipped.
type Hooks struct {
	OnDispatch func(name Name, status string, duration time.Duration)
	OnDenied   func(name Name, actor Role, err error)
	OnTriage   func(severity string)
	OnPersist  func(resourceType string)
}

// Service dispatches intent requests: enforce, run the intent's handler,
// persist at most one event.
type Service struct {
	events EventWriter
	scorer Scorer
	logger zerolog.Logger
	hooks  Hooks
	now    func() time.Time
}

func NewService(events EventWriter, scorer Scorer, logger zerolog.Logger) *Service {
	if scorer == nil {
		scorer = KeywordScorer{}
	}
	return &Service{events: events, scorer: scorer, logger: logger, now: time.Now}
}

// SetHooks replaces the dispatch hooks.
func (s *Service) SetHooks(h Hooks) { s.hooks = h }

// Execute validates and authorizes req, then runs the handler for its intent.
// Enforcement failures return before anything is persisted.
func (s *Service) Execute(ctx context.Context, req *Request) (Response, error) {
	if req == nil {
		return nil, &MalformedRequestError{Field: "intent.name"}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := Enforce(req.Intent, req.Actor); err != nil {
		s.logger.Warn().Err(err).
			Str("intent", string(req.Intent)).
			Str("actor", string(req.Actor)).
			Msg("intent denied")
		if s.hooks.OnDenied != nil {
			s.hooks.OnDenied(req.Intent, req.Actor, err)
		}
		return nil, err
	}

	start := time.Now()
	resp, err := s.dispatch(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.hooks.OnDispatch != nil {
		s.hooks.OnDispatch(req.Intent, resp.Status(), time.Since(start))
	}
	return resp, nil
}

func (s *Service) dispatch(ctx context.Context, req *Request) (Response, error) {
	switch req.Intent {
	case PatientEmergencyHelp:
		return s.emergencyHelp(ctx, req)
	case PatientSymptomReport:
		return s.symptomReport(ctx, req)
	case ScheduleAppointment:
		return s.scheduleAppointment(ctx, req)
	case CancelAppointment:
		return s.cancelAppointment(ctx, req)
	case RescheduleAppointment:
		return s.rescheduleAppointment(ctx, req)
	case RequestPrescriptionRefill:
		return s.prescriptionRefill(ctx, req)
	case ViewPrescriptions:
		return Response{
			"status":        "SUCCESS",
			"prescriptions": []interface{}{},
			"message":       "No active prescriptions found",
		}, nil
	case ViewLabResults:
		return Response{
			"status":      "SUCCESS",
			"lab_results": []interface{}{},
			"message":     "No recent lab results available",
		}, nil
	case RequestTelehealthConsultation:
		return s.telehealthConsultation(ctx, req)
	case ViewMedicalRecords:
		return Response{
			"status":  "SUCCESS",
			"records": []interface{}{},
			"message": "Medical records retrieved",
		}, nil
	case HealthQuery:
		return healthQuery(req)

	// Authorized for clinicians and admins but not implemented yet: accepted
	// and acknowledged without side effects.
	case ClinicalPrescriptionRequest, ClinicalDiagnosis, ClinicalOrderLab,
		ClinicalViewPatientRecords, ClinicalUpdateRecords,
		AdminManageUsers, AdminViewAnalytics, AdminSystemConfig:
		return processedResponse(), nil
	}
	// Unreachable while Enforce rejects names outside the allow-lists.
	return processedResponse(), nil
}

func processedResponse() Response {
	return Response{"status": "OK", "message": "Intent processed"}
}

func (s *Service) emergencyHelp(ctx context.Context, req *Request) (Response, error) {
	id := uuid.New().String()
	if _, err := s.persist(ctx, "Encounter", req, map[string]interface{}{
		"encounter_id": id,
		"type":         "emergency",
		"timestamp":    s.timestamp(),
	}); err != nil {
		return nil, err
	}
	return Response{
		"status":                  "EMERGENCY_TRIGGERED",
		"encounter_id":            id,
		"message":                 "Emergency response team has been notified",
		"estimated_response_time": "5-10 minutes",
	}, nil
}

func (s *Service) symptomReport(ctx context.Context, req *Request) (Response, error) {
	symptoms, err := stringList(req.Payload, "symptoms")
	if err != nil {
		return nil, err
	}
	risk := s.scorer.Triage(symptoms)
	if s.hooks.OnTriage != nil {
		s.hooks.OnTriage(risk.Severity)
	}

	id := uuid.New().String()
	if _, err := s.persist(ctx, "Observation", req, map[string]interface{}{
		"observation_id": id,
		"risk_score":     risk.RiskScore,
		"timestamp":      s.timestamp(),
	}); err != nil {
		return nil, err
	}
	return Response{
		"status":         "RECEIVED",
		"observation_id": id,
		"risk":           risk,
		"recommendation": symptomRecommendation(risk.RiskScore),
	}, nil
}

func (s *Service) scheduleAppointment(ctx context.Context, req *Request) (Response, error) {
	date, ok, err := optionalString(req.Payload, "preferred_date")
	if err != nil {
		return nil, err
	}
	if !ok {
		date = s.now().AddDate(0, 0, 1).Format("2006-01-02")
	}

	id := uuid.New().String()
	if _, err := s.persist(ctx, "Appointment", req, map[string]interface{}{
		"appointment_id":   id,
		"status":           "scheduled",
		"appointment_date": date,
		"created_at":       s.timestamp(),
	}); err != nil {
		return nil, err
	}
	return Response{
		"status":           "APPOINTMENT_SCHEDULED",
		"appointment_id":   id,
		"appointment_date": date,
		"message":          fmt.Sprintf("Appointment scheduled for %s", date),
	}, nil
}

// cancelAppointment appends a cancellation event. The original scheduling
// event is not looked up or changed; consumers fold events per appointment.
func (s *Service) cancelAppointment(ctx context.Context, req *Request) (Response, error) {
	if _, err := s.persist(ctx, "Appointment", req, map[string]interface{}{
		"status":       "cancelled",
		"cancelled_at": s.timestamp(),
	}); err != nil {
		return nil, err
	}
	return Response{
		"status":  "APPOINTMENT_CANCELLED",
		"message": "Appointment has been cancelled successfully",
	}, nil
}

// rescheduleAppointment appends a rescheduling event. new_date is echoed as
// given, without parsing.
func (s *Service) rescheduleAppointment(ctx context.Context, req *Request) (Response, error) {
	if _, err := s.persist(ctx, "Appointment", req, map[string]interface{}{
		"status":         "rescheduled",
		"rescheduled_at": s.timestamp(),
	}); err != nil {
		return nil, err
	}
	return Response{
		"status":   "APPOINTMENT_RESCHEDULED",
		"new_date": req.Payload["new_date"],
		"message":  "Appointment has been rescheduled",
	}, nil
}

func (s *Service) prescriptionRefill(ctx context.Context, req *Request) (Response, error) {
	id := uuid.New().String()
	if _, err := s.persist(ctx, "MedicationRequest", req, map[string]interface{}{
		"prescription_id": id,
		"type":            "refill",
		"status":          "pending",
		"requested_at":    s.timestamp(),
	}); err != nil {
		return nil, err
	}
	return Response{
		"status":          "REFILL_REQUESTED",
		"prescription_id": id,
		"message":         "Prescription refill request submitted. Doctor will review within 24 hours.",
	}, nil
}

func (s *Service) telehealthConsultation(ctx context.Context, req *Request) (Response, error) {
	id := uuid.New().String()
	if _, err := s.persist(ctx, "Encounter", req, map[string]interface{}{
		"encounter_id": id,
		"type":         "telehealth",
		"status":       "scheduled",
		"created_at":   s.timestamp(),
	}); err != nil {
		return nil, err
	}
	return Response{
		"status":          "CONSULTATION_SCHEDULED",
		"consultation_id": id,
		"message":         "Telehealth consultation request received. You will be contacted shortly.",
	}, nil
}

func healthQuery(req *Request) (Response, error) {
	query, _, err := optionalString(req.Payload, "query")
	if err != nil {
		return nil, err
	}
	return Response{
		"status":      "SUCCESS",
		"response":    fmt.Sprintf("Processing your health query: %s", query),
		"suggestions": []string{"Schedule appointment", "View lab results", "Contact doctor"},
	}, nil
}

// persist writes the full request merged with fields. Attached fields
// override request keys of the same name.
func (s *Service) persist(ctx context.Context, resourceType string, req *Request, fields map[string]interface{}) (*eventstore.Record, error) {
	data := make(map[string]interface{}, len(req.Raw)+len(fields))
	for k, v := range req.Raw {
		data[k] = v
	}
	for k, v := range fields {
		data[k] = v
	}
	rec, err := s.events.Persist(ctx, resourceType, data)
	if err != nil {
		return nil, fmt.Errorf("persist %s: %w", resourceType, err)
	}
	s.logger.Debug().
		Str("resource_type", resourceType).
		Str("event_id", rec.ID).
		Str("intent", string(req.Intent)).
		Msg("event persisted")
	if s.hooks.OnPersist != nil {
		s.hooks.OnPersist(resourceType)
	}
	return rec, nil
}

func (s *Service) timestamp() string {
	return s.now().Format(time.RFC3339Nano)
}

// stringList reads an optional list of strings. Absent or null yields nil.
func stringList(payload map[string]interface{}, key string) ([]string, error) {
	v, ok := payload[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []interface{}:
		out := make([]string, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, &InvalidPayloadError{Field: key, Reason: fmt.Sprintf("element %d is not a string", i)}
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, &InvalidPayloadError{Field: key, Reason: "expected a list of strings"}
}

// optionalString reads an optional string field; ok is false when the field
// is absent or null.
func optionalString(payload map[string]interface{}, key string) (string, bool, error) {
	v, present := payload[key]
	if !present || v == nil {
		return "", false, nil
	}
	s, isString := v.(string)
	if !isString {
		return "", false, &InvalidPayloadError{Field: key, Reason: "expected a string"}
	}
	return s, true, nil
}

// IsClientError reports whether err was caused by the request rather than
// the server.
func IsClientError(err error) bool {
	var malformed *MalformedRequestError
	var unknown *UnknownActorError
	var denied *AuthorizationError
	var invalid *InvalidPayloadError
	return errors.As(err, &malformed) || errors.As(err, &unknown) ||
		errors.As(err, &denied) || errors.As(err, &invalid)
}
