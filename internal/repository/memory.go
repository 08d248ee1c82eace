package repository

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryRateLimitRepository is the in-process fallback limiter used when
// Redis is unavailable or not configured.
type MemoryRateLimitRepository struct {
	limiters sync.Map // map[string]*rate.Limiter
}

func NewMemoryRateLimitRepository() *MemoryRateLimitRepository {
	return &MemoryRateLimitRepository{}
}

func (m *MemoryRateLimitRepository) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	return m.getLimiter(key, limit, window).Allow(), nil
}

func (m *MemoryRateLimitRepository) getLimiter(key string, limit int, window time.Duration) *rate.Limiter {
	if v, ok := m.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	if window <= 0 {
		window = time.Second
	}
	if limit <= 0 {
		limit = 1
	}

	// limit запросов за окно, сглаженные токен-бакетом
	perSecond := float64(limit) / window.Seconds()
	lim := rate.NewLimiter(rate.Limit(perSecond), limit)
	actual, loaded := m.limiters.LoadOrStore(key, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}
	return lim
}
