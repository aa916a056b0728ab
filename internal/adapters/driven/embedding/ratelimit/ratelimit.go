// Package ratelimit throttles requests to remote embedding providers.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HeaderRetryAfter is the retry-after header (seconds).
const HeaderRetryAfter = "Retry-After"

// DefaultRetryAfter is the pause applied to a 429 without a Retry-After header.
const DefaultRetryAfter = 2 * time.Second

// Limiter combines a token bucket with a pause requested by the provider.
type Limiter struct {
	mu          sync.Mutex
	bucket      *rate.Limiter // nil when unlimited
	pausedUntil time.Time
}

// New creates a limiter allowing rps requests per second.
// A non-positive rps disables proactive throttling.
func New(rps float64) *Limiter {
	l := &Limiter{}
	if rps > 0 {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		l.bucket = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return l
}

// Wait blocks until a request may be sent or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	until := l.pausedUntil
	l.mu.Unlock()

	if d := time.Until(until); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if l.bucket == nil {
		return nil
	}
	return l.bucket.Wait(ctx)
}

// Observe records a provider response. It reports whether the response
// was a rate limit rejection, in which case later calls to Wait pause.
func (l *Limiter) Observe(resp *http.Response) bool {
	if l == nil || resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return false
	}

	pause := DefaultRetryAfter
	if retryAfter := resp.Header.Get(HeaderRetryAfter); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
			pause = time.Duration(seconds) * time.Second
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if until := time.Now().Add(pause); until.After(l.pausedUntil) {
		l.pausedUntil = until
	}
	return true
}

// PausedUntil returns when the current provider-requested pause ends.
func (l *Limiter) PausedUntil() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pausedUntil
}
