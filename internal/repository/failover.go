package repository

import (
	"context"
	"sync/atomic"
	"time"

	"farmrent/internal/domain"
	"farmrent/internal/models"

	"github.com/rs/zerolog"
)

// FailoverStateRepository prefers the primary repository and falls back
// to the secondary when the primary errors. Once the primary is marked
// down it is retried at most once a minute.
type FailoverStateRepository struct {
	primary  domain.StateRepository
	fallback domain.StateRepository
	logger   *zerolog.Logger
	isDown   atomic.Bool
	// lastCheck holds the unix nanos of the last failed primary probe.
	lastCheck atomic.Int64
}

func NewFailoverStateRepository(primary, fallback domain.StateRepository, logger *zerolog.Logger) *FailoverStateRepository {
	return &FailoverStateRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverStateRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary state repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverStateRepository) GetSession(ctx context.Context, token string) (*models.SessionState, error) {
	if !r.isDown.Load() {
		state, err := r.primary.GetSession(ctx, token)
		if err == nil {
			return state, nil
		}
		r.markDown(err)
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(time.Unix(0, r.lastCheck.Load())) > time.Minute {
		state, err := r.primary.GetSession(ctx, token)
		if err == nil {
			r.isDown.Store(false)
			return state, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.GetSession(ctx, token)
}

func (r *FailoverStateRepository) SetSession(ctx context.Context, state *models.SessionState) error {
	if !r.isDown.Load() {
		err := r.primary.SetSession(ctx, state)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetSession(ctx, state)
}

func (r *FailoverStateRepository) DeleteSession(ctx context.Context, token string) error {
	if !r.isDown.Load() {
		err := r.primary.DeleteSession(ctx, token)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.DeleteSession(ctx, token)
}

func (r *FailoverStateRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.CheckRateLimit(ctx, key, limit, window)
}
