package udp

import (
	"net/netip"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// sourceLimiter keeps one token bucket per source address.
// The table is bounded; the least recently seen sources lose their bucket first.
type sourceLimiter struct {
	mu      sync.Mutex
	buckets *lru.Cache[netip.Addr, *rate.Limiter]
	limit   rate.Limit
	burst   int
}

func newSourceLimiter(size int, perSecond float64, burst int) (*sourceLimiter, error) {
	buckets, err := lru.New[netip.Addr, *rate.Limiter](size)
	if err != nil {
		return nil, err
	}
	return &sourceLimiter{
		buckets: buckets,
		limit:   rate.Limit(perSecond),
		burst:   burst,
	}, nil
}

// Allow reports whether a datagram from addr may be processed now. A nil limiter allows everything.
func (l *sourceLimiter) Allow(addr netip.Addr) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	bucket, ok := l.buckets.Get(addr)
	if !ok {
		bucket = rate.NewLimiter(l.limit, l.burst)
		l.buckets.Add(addr, bucket)
	}
	l.mu.Unlock()

	return bucket.Allow()
}
