package eventstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// PGStore persists events to the intent_event table (migrations/001_intent_events.sql).
type PGStore struct {
	db queryable
}

func NewPGStore(pool *pgxpool.Pool) *PGStore { return &PGStore{db: pool} }

// Persist takes the next value of intent_event_seq, which both orders the log
// and supplies the fallback id (seq-1, so the first record falls back to "0").
func (s *PGStore) Persist(ctx context.Context, resourceType string, data map[string]interface{}) (*Record, error) {
	var seq int64
	if err := s.db.QueryRow(ctx, `SELECT nextval('intent_event_seq')`).Scan(&seq); err != nil {
		return nil, fmt.Errorf("reserve event sequence: %w", err)
	}
	r := NewRecord(resourceType, data, seq-1)
	raw, err := json.Marshal(r.Data)
	if err != nil {
		return nil, fmt.Errorf("encode event data: %w", err)
	}
	var patientID *string
	if v, ok := r.Data["patient_id"]; ok && v != nil {
		pid := fmt.Sprint(v)
		patientID = &pid
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO intent_event (seq, id, resource_type, patient_id, data, event_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		seq, r.ID, r.ResourceType, patientID, raw, r.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return r, nil
}

// List returns matching events ordered by seq.
func (s *PGStore) List(ctx context.Context, f Filter) ([]*Record, error) {
	query := `SELECT id, resource_type, data, event_timestamp FROM intent_event WHERE 1=1`
	var args []interface{}
	idx := 1
	if f.ResourceType != "" {
		query += fmt.Sprintf(" AND resource_type = $%d", idx)
		args = append(args, f.ResourceType)
		idx++
	}
	if f.PatientID != "" {
		query += fmt.Sprintf(" AND patient_id = $%d", idx)
		args = append(args, f.PatientID)
	}
	query += " ORDER BY seq"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	out := make([]*Record, 0)
	for rows.Next() {
		var r Record
		var raw []byte
		if err := rows.Scan(&r.ID, &r.ResourceType, &raw, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if err := json.Unmarshal(raw, &r.Data); err != nil {
			return nil, fmt.Errorf("decode event data: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
