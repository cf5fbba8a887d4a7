package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/blogtext"
	"golang.org/x/time/rate"
)

var _ blogtext.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter hands out one token bucket per host. The relay fetcher keys
// it by relay host, so each public relay is throttled on its own no matter
// which blog is being read.
type DomainLimiter struct {
	every rate.Limit

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewDomainLimiter allows rps requests per second per host with a burst of
// one. Zero or negative rps means no limit.
func NewDomainLimiter(rps float64) *DomainLimiter {
	every := rate.Inf
	if rps > 0 {
		every = rate.Limit(rps)
	}
	return &DomainLimiter{every: every, buckets: map[string]*rate.Limiter{}}
}

// Wait blocks until host may be contacted again or ctx ends.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	return d.bucket(host).Wait(ctx)
}

func (d *DomainLimiter) bucket(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buckets[host]
	if !ok {
		b = rate.NewLimiter(d.every, 1)
		d.buckets[host] = b
	}
	return b
}
