// internal/state/redis.go
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/helpline/internal/types"
)

const defaultTTL = 24 * time.Hour

// RedisStore persists session records as JSON values keyed by
// help-session-<id>, with a TTL refreshed on every write.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a redis-backed store. A non-positive ttl falls
// back to the 24h default.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(id types.SessionID) string {
	return keyPrefix + string(id)
}

// Put persists the record, overwriting any existing record for the id.
func (s *RedisStore) Put(ctx context.Context, id types.SessionID, record *types.SessionRecord) error {
	val, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	if err := s.client.Set(ctx, s.key(id), val, s.ttl).Err(); err != nil {
		return fmt.Errorf("write session record: %w", err)
	}
	return nil
}

// Get returns the record for id, or types.ErrNotFound when none exists.
func (s *RedisStore) Get(ctx context.Context, id types.SessionID) (*types.SessionRecord, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err == redis.Nil {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session record: %w", err)
	}

	var record types.SessionRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, fmt.Errorf("unmarshal session record: %w", err)
	}
	return &record, nil
}

// Close releases the underlying redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
