package intent

import "fmt"

// MalformedRequestError means intent.name or actor.type could not be read
// from the request.
type MalformedRequestError struct {
	Field string
}

func (e *MalformedRequestError) Error() string {
	return fmt.Sprintf("malformed intent request: missing or invalid %s", e.Field)
}

// UnknownActorError means actor.type is not a recognized role.
type UnknownActorError struct {
	Actor string
}

func (e *UnknownActorError) Error() string {
	return fmt.Sprintf("unknown actor type: %s", e.Actor)
}

// AuthorizationError means a recognized actor is not allowed to perform the intent.
type AuthorizationError struct {
	Actor  Role
	Intent Name
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("policy violation: %s cannot perform %s", roleLabel(e.Actor), e.Intent)
}

// InvalidPayloadError means an intent handler found a payload field of the
// wrong shape.
type InvalidPayloadError struct {
	Field  string
	Reason string
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("invalid payload field %s: %s", e.Field, e.Reason)
}

func roleLabel(r Role) string {
	switch r {
	case RolePatient:
		return "patient"
	case RoleClinician, RoleDoctor:
		return "clinician"
	case RoleAdmin:
		return "admin"
	}
	return string(r)
}
