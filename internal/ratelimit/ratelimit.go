package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Limiter paces successive operations against a remote site.
type Limiter interface {
	Wait(ctx context.Context) error
}

// JitteredLimiter enforces a randomized delay between min and max since
// the previous action. Jitter keeps the navigation cadence from looking
// mechanical to the portal.
type JitteredLimiter struct {
	mu         sync.Mutex
	minDelay   time.Duration
	maxDelay   time.Duration
	lastAction time.Time
}

func NewJitteredLimiter(minDelay, maxDelay time.Duration) *JitteredLimiter {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &JitteredLimiter{minDelay: minDelay, maxDelay: maxDelay}
}

func (l *JitteredLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delay := l.minDelay
	if delta := l.maxDelay - l.minDelay; delta > 0 {
		delay += time.Duration(rand.Int63n(int64(delta)))
	}

	if elapsed := time.Since(l.lastAction); elapsed < delay {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay - elapsed):
		}
	}
	l.lastAction = time.Now()
	return nil
}

// None performs no pacing.
type None struct{}

func (None) Wait(context.Context) error { return nil }
