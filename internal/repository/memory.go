package repository

import (
	"context"
	"sync"
	"time"

	"farmrent/internal/models"
)

// MemoryStateRepository keeps session state in process memory. It
// satisfies the same contract as the Redis repository, so it serves as
// the default when no Redis address is configured and as a test
// double.
type MemoryStateRepository struct {
	sessions   sync.Map
	rateLimits sync.Map
	ttl        time.Duration
}

type sessionEntry struct {
	state     *models.SessionState
	expiresAt time.Time
}

func NewMemoryStateRepository(ttl time.Duration) *MemoryStateRepository {
	return &MemoryStateRepository{ttl: ttl}
}

func (r *MemoryStateRepository) GetSession(ctx context.Context, token string) (*models.SessionState, error) {
	val, ok := r.sessions.Load(token)
	if !ok {
		return nil, nil
	}
	entry := val.(*sessionEntry)
	if r.ttl > 0 && time.Now().After(entry.expiresAt) {
		r.sessions.Delete(token)
		return nil, nil
	}
	return entry.state, nil
}

func (r *MemoryStateRepository) SetSession(ctx context.Context, state *models.SessionState) error {
	r.sessions.Store(state.Token, &sessionEntry{
		state:     state,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryStateRepository) DeleteSession(ctx context.Context, token string) error {
	r.sessions.Delete(token)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryStateRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, ok := r.rateLimits.Load(key)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{count: 1, expiresAt: now.Add(window)}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.rateLimits.Store(key, entry)
	return entry.count <= limit, nil
}
