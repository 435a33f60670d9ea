package rod

import (
	"context"
	"time"

	"github.com/pagesift/pagesift"
	"golang.org/x/sync/semaphore"
)

// DefaultPoolSize is the default number of concurrent render sessions.
const DefaultPoolSize = 2

// DefaultAcquireTimeout is how long Acquire waits for a free slot before
// giving up.
const DefaultAcquireTimeout = 15 * time.Second

// Pool bounds concurrent render sessions. Rendering is the expensive path,
// so the pool deliberately blocks rather than letting browser work fan out
// with demand.
type Pool struct {
	sem            *semaphore.Weighted
	acquireTimeout time.Duration
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithAcquireTimeout sets how long Acquire waits for a free slot.
// Defaults to DefaultAcquireTimeout (15s) if not specified.
func WithAcquireTimeout(d time.Duration) PoolOption {
	return func(p *Pool) {
		p.acquireTimeout = d
	}
}

// NewPool creates a Pool with the given number of slots. A size below one
// falls back to DefaultPoolSize.
func NewPool(size int, opts ...PoolOption) *Pool {
	if size < 1 {
		size = DefaultPoolSize
	}
	p := &Pool{
		sem:            semaphore.NewWeighted(int64(size)),
		acquireTimeout: DefaultAcquireTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Acquire blocks until a render slot is free, the acquire timeout expires,
// or ctx is cancelled. Timeout exhaustion is reported as a pool-exhausted
// error; caller cancellation is returned as-is.
func (p *Pool) Acquire(ctx context.Context) error {
	acquireCtx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()

	if err := p.sem.Acquire(acquireCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return pagesift.Errorf(pagesift.EPOOLEXHAUSTED, "no render slot available within %s", p.acquireTimeout)
	}
	return nil
}

// Release frees a slot acquired with Acquire.
func (p *Pool) Release() {
	p.sem.Release(1)
}
