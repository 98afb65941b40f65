package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryRateLimitRepository is the process-local counterpart of the Redis counter.
type MemoryRateLimitRepository struct {
	mu      sync.Mutex
	windows map[int64]*rateWindow
	now     func() time.Time
}

type rateWindow struct {
	count     int
	expiresAt time.Time
}

func NewMemoryRateLimitRepository() *MemoryRateLimitRepository {
	return &MemoryRateLimitRepository{
		windows: make(map[int64]*rateWindow),
		now:     time.Now,
	}
}

func (r *MemoryRateLimitRepository) CheckRateLimit(_ context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.windows[userID]
	if !ok || !now.Before(w.expiresAt) {
		w = &rateWindow{expiresAt: now.Add(window)}
		r.windows[userID] = w
	}
	w.count++

	return w.count <= limit, nil
}

// Sweep drops expired windows and reports how many were removed.
func (r *MemoryRateLimitRepository) Sweep() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, w := range r.windows {
		if !now.Before(w.expiresAt) {
			delete(r.windows, id)
			removed++
		}
	}
	return removed
}
