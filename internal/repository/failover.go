package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/domain"
)

const retryPrimaryAfter = time.Minute

// FailoverRateLimitRepository uses primary until it errors, then fallback.
// Primary is retried once retryPrimaryAfter has passed since the last failure.
type FailoverRateLimitRepository struct {
	primary  domain.RateLimitRepository
	fallback domain.RateLimitRepository
	logger   *zerolog.Logger
	isDown   atomic.Bool
	downAt   atomic.Int64
	now      func() time.Time
}

func NewFailoverRateLimitRepository(primary, fallback domain.RateLimitRepository, logger *zerolog.Logger) *FailoverRateLimitRepository {
	return &FailoverRateLimitRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

func (r *FailoverRateLimitRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if r.usePrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, userID, limit, window)
		if err == nil {
			if r.isDown.Swap(false) {
				r.logger.Info().Msg("Primary rate limiter recovered")
			}
			return allowed, nil
		}
		if !r.isDown.Swap(true) {
			r.logger.Error().Err(err).Msg("Primary rate limiter failed, falling back to memory")
		}
		r.downAt.Store(r.now().UnixNano())
	}

	return r.fallback.CheckRateLimit(ctx, userID, limit, window)
}

// Degraded reports whether calls are currently served by the fallback.
func (r *FailoverRateLimitRepository) Degraded() bool {
	return r.isDown.Load()
}

func (r *FailoverRateLimitRepository) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	return r.now().Sub(time.Unix(0, r.downAt.Load())) > retryPrimaryAfter
}
