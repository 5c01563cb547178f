package intent

// allowed maps each role to the set of intents it may perform. Built once at
// init and read-only afterwards.
//
// ADMIN gets admin ∪ clinician intents but not the patient intents that
// CLINICIAN/DOCTOR inherit, so an admin cannot schedule an appointment.
var allowed = map[Role]map[Name]struct{}{
	RolePatient:   setOf(patientIntents),
	RoleClinician: setOf(clinicianIntents, patientIntents),
	RoleDoctor:    setOf(clinicianIntents, patientIntents),
	RoleAdmin:     setOf(adminIntents, clinicianIntents),
}

func setOf(lists ...[]Name) map[Name]struct{} {
	s := make(map[Name]struct{})
	for _, l := range lists {
		for _, n := range l {
			s[n] = struct{}{}
		}
	}
	return s
}

// Enforce returns nil when actor may perform name, an *UnknownActorError when
// actor is not a recognized role, and an *AuthorizationError otherwise.
func Enforce(name Name, actor Role) error {
	set, ok := allowed[actor]
	if !ok {
		return &UnknownActorError{Actor: string(actor)}
	}
	if _, ok := set[name]; !ok {
		return &AuthorizationError{Actor: actor, Intent: name}
	}
	return nil
}

// EnforceString is Enforce for untyped intent and actor values.
func EnforceString(name, actor string) error {
	return Enforce(Name(name), Role(actor))
}

// AllowedIntents returns the intents a role may perform, in declaration order.
// It returns nil for unknown roles.
func AllowedIntents(actor Role) []Name {
	set, ok := allowed[actor]
	if !ok {
		return nil
	}
	var out []Name
	for _, n := range AllNames() {
		if _, ok := set[n]; ok {
			out = append(out, n)
		}
	}
	return out
}
