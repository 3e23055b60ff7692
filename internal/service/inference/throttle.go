package inference

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// DefaultRateLimit is the default QPS limit.
const DefaultRateLimit = 10

// Throttle bounds generation calls: at most maxInFlight run at once and
// new calls start no faster than the configured QPS.
type Throttle struct {
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

// NewThrottle creates a throttle. Non-positive values fall back to one
// call in flight and DefaultRateLimit.
func NewThrottle(maxInFlight int64, qps int) *Throttle {
	if maxInFlight <= 0 {
		maxInFlight = 1
	}
	if qps <= 0 {
		qps = DefaultRateLimit
	}
	return &Throttle{
		sem:     semaphore.NewWeighted(maxInFlight),
		limiter: rate.NewLimiter(rate.Limit(qps), qps), // burst = qps
	}
}

// Acquire blocks until a slot is free and a rate token is available, or
// ctx is done. The returned release must be called exactly once.
func (t *Throttle) Acquire(ctx context.Context) (func(), error) {
	if err := t.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	if err := t.limiter.Wait(ctx); err != nil {
		t.sem.Release(1)
		return nil, err
	}

	var once sync.Once
	return func() { once.Do(func() { t.sem.Release(1) }) }, nil
}
