package api

import (
	"sync"

	"golang.org/x/time/rate"

	"shareit/internal/config"
)

const defaultBurst = 5

// keyedLimiter keeps one token bucket per caller. A non-positive RPS disables limiting.
type keyedLimiter struct {
	limiters sync.Map
	rps      float64
	burst    int
}

func newKeyedLimiter(cfg config.APIRateLimitConfig) *keyedLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	return &keyedLimiter{rps: cfg.RPS, burst: burst}
}

func (l *keyedLimiter) allow(key string) bool {
	if l.rps <= 0 {
		return true
	}
	return l.get(key).Allow()
}

func (l *keyedLimiter) get(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	lim := rate.NewLimiter(rate.Limit(l.rps), l.burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}
	return lim
}
