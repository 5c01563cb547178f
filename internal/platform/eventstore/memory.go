package eventstore

import (
	"context"
	"sync"
)

// MemoryStore holds the event log in process memory. Each instance is an
// independent log.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*Record
}

// NewMemoryStore initializes an empty in-memory log.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Persist appends a record. The fallback id is the log length before the append.
func (s *MemoryStore) Persist(_ context.Context, resourceType string, data map[string]interface{}) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := NewRecord(resourceType, data, int64(len(s.records)))
	s.records = append(s.records, r)
	return cloneRecord(r), nil
}

// List returns copies of matching records in insertion order.
func (s *MemoryStore) List(_ context.Context, f Filter) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0)
	for _, r := range s.records {
		if f.Match(r) {
			out = append(out, cloneRecord(r))
		}
	}
	return out, nil
}

// Len returns the number of records in the log.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
