package ingest

import (
	"context"
	"sync"

	"github.com/pagesift/pagesift"
	"golang.org/x/time/rate"
)

// Compile-time interface verification.
var _ pagesift.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter enforces a per-domain request rate so repeated strategy
// runs against the same site stay polite. Limiters are created lazily, one
// per domain.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
}

// NewDomainLimiter returns a limiter allowing rps requests per second to
// each domain, with no burst allowance.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
	}
}

// Wait blocks until a request to the domain is allowed or the context is
// canceled.
func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	l.mu.Lock()
	limiter, ok := l.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(l.rps, 1)
		l.limiters[domain] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}
