// Package session tracks anonymous browser sessions. A session only scopes a
// cart; it carries no identity.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Registry records live session ids.
type Registry interface {
	// Touch creates or refreshes id.
	Touch(ctx context.Context, id string) error
	// Exists reports whether id is live.
	Exists(ctx context.Context, id string) (bool, error)
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// RedisRegistry keeps sessions as expiring Redis keys.
type RedisRegistry struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedis returns a Registry whose sessions expire ttl after their last touch.
func NewRedis(client redis.Cmdable, ttl time.Duration) *RedisRegistry {
	return &RedisRegistry{client: client, ttl: ttl}
}

// Touch sets the session key and restarts its TTL.
func (r *RedisRegistry) Touch(ctx context.Context, id string) error {
	if err := r.client.Set(ctx, keyPrefix+id, time.Now().UTC().Format(time.RFC3339), r.ttl).Err(); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// Exists reports whether the session key is still present.
func (r *RedisRegistry) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.client.Get(ctx, keyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup session: %w", err)
	}
	return true, nil
}

// MemoryRegistry is a process-local Registry.
type MemoryRegistry struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	expires map[string]time.Time
}

// NewMemory returns a MemoryRegistry whose sessions expire ttl after their
// last touch.
func NewMemory(ttl time.Duration) *MemoryRegistry {
	return &MemoryRegistry{ttl: ttl, now: time.Now, expires: make(map[string]time.Time)}
}

// Touch records id and restarts its TTL.
func (m *MemoryRegistry) Touch(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expires[id] = m.now().Add(m.ttl)
	return nil
}

// Exists reports whether id was touched within the TTL. Expired ids are
// dropped.
func (m *MemoryRegistry) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.expires[id]
	if !ok {
		return false, nil
	}
	if !m.now().Before(exp) {
		delete(m.expires, id)
		return false, nil
	}
	return true, nil
}
