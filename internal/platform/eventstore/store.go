// Package eventstore is the append-only log of resource events written by the
// intent dispatcher. Records are never mutated or deleted once appended.
package eventstore

import (
	"context"
	"fmt"
	"strconv"
)

// Record is a single persisted event.
type Record struct {
	ID           string                 `json:"id"`
	ResourceType string                 `json:"resourceType"`
	Data         map[string]interface{} `json:"data"`
	Timestamp    *string                `json:"timestamp"`
}

// Filter narrows List results. Empty fields match everything; set fields are
// combined with AND.
type Filter struct {
	ResourceType string
	PatientID    string
}

// Store is implemented by every event log backend. Persist must append exactly
// one complete record per call, and List must never observe a partial record.
type Store interface {
	Persist(ctx context.Context, resourceType string, data map[string]interface{}) (*Record, error)
	List(ctx context.Context, f Filter) ([]*Record, error)
}

// Id fields checked, in order, when deriving a record id from its data.
var idFields = []string{"encounter_id", "appointment_id", "prescription_id"}

// Timestamp fields checked, in order, when deriving the record timestamp.
var timestampFields = []string{"timestamp", "created_at", "requested_at"}

// NewRecord builds a record for data. The id is taken from the first present
// domain id field; seq is used only when none is present, so ids are not
// guaranteed unique across records.
func NewRecord(resourceType string, data map[string]interface{}, seq int64) *Record {
	r := &Record{
		ResourceType: resourceType,
		Data:         cloneData(data),
	}
	if id, ok := firstPresent(data, idFields); ok {
		r.ID = id
	} else {
		r.ID = strconv.FormatInt(seq, 10)
	}
	if ts, ok := firstPresent(data, timestampFields); ok {
		r.Timestamp = &ts
	}
	return r
}

// Match reports whether r satisfies every set field of f.
func (f Filter) Match(r *Record) bool {
	if f.ResourceType != "" && r.ResourceType != f.ResourceType {
		return false
	}
	if f.PatientID != "" {
		pid, ok := r.Data["patient_id"]
		if !ok || pid == nil || fmt.Sprint(pid) != f.PatientID {
			return false
		}
	}
	return true
}

// firstPresent returns the first key whose value is present and non-empty.
func firstPresent(data map[string]interface{}, keys []string) (string, bool) {
	for _, k := range keys {
		v, ok := data[k]
		if !ok || v == nil {
			continue
		}
		s := fmt.Sprint(v)
		if s == "" {
			continue
		}
		return s, true
	}
	return "", false
}

// cloneData makes a shallow copy so later writes by the caller are not
// visible through a stored record.
func cloneData(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func cloneRecord(r *Record) *Record {
	cp := *r
	cp.Data = cloneData(r.Data)
	return &cp
}
