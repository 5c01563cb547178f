package eventstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the event log in a Redis list. Each record is a single
// RPUSH of its JSON encoding, so readers never see half-written entries.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store using keys under prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if client == nil {
		panic("eventstore.NewRedisStore: client is nil")
	}
	if prefix == "" {
		prefix = "intent"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) logKey() string { return s.prefix + ":events" }
func (s *RedisStore) seqKey() string { return s.prefix + ":events:seq" }

// Persist reserves a sequence number and appends the record.
func (s *RedisStore) Persist(ctx context.Context, resourceType string, data map[string]interface{}) (*Record, error) {
	n, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("reserve event sequence: %w", err)
	}
	r := NewRecord(resourceType, data, n-1)
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	if err := s.client.RPush(ctx, s.logKey(), raw).Err(); err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}
	return r, nil
}

// List decodes the whole log and returns matching records in list order.
func (s *RedisStore) List(ctx context.Context, f Filter) ([]*Record, error) {
	items, err := s.client.LRange(ctx, s.logKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	out := make([]*Record, 0, len(items))
	for _, item := range items {
		var r Record
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		if f.Match(&r) {
			out = append(out, &r)
		}
	}
	return out, nil
}
