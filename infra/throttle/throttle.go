// Package throttle keeps one token bucket per key.
package throttle

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Throttle struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

// New allows perMinute events per key with the given burst.
func New(perMinute, burst int) *Throttle {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Throttle{
		limiters: make(map[string]*rate.Limiter),
		every:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

// Allow consumes a token for key and reports whether one was available.
func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	lim, ok := t.limiters[key]
	if !ok {
		lim = rate.NewLimiter(t.every, t.burst)
		t.limiters[key] = lim
	}
	t.mu.Unlock()
	return lim.Allow()
}
