// Package memory keeps the session registry in process memory.
// Used for single-node deployments and local runs without Redis.
package memory

import (
	"context"
	"time"

	"sixpmaster/domain"
	"sixpmaster/interfaces"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryRegistry struct {
	entries *expirable.LRU[domain.Endpoint, domain.Announcement]
	ttl     time.Duration
	clock   interfaces.TimeProvider
}

var _ interfaces.Registry = (*memoryRegistry)(nil)

// NewRegistry creates in-memory session registry holding at most size endpoints.
// When full, the least recently announced endpoint is evicted.
func NewRegistry(size int, ttl time.Duration, clock interfaces.TimeProvider) *memoryRegistry {
	return &memoryRegistry{
		entries: expirable.NewLRU[domain.Endpoint, domain.Announcement](size, nil, ttl),
		ttl:     ttl,
		clock:   clock,
	}
}

func (r *memoryRegistry) EnsureIndexes(context.Context) error {
	return nil
}

func (r *memoryRegistry) Upsert(_ context.Context, a domain.Announcement) error {
	r.entries.Add(a.Endpoint, a)
	return nil
}

// QueryRecent returns live endpoints, most recently announced first.
func (r *memoryRegistry) QueryRecent(_ context.Context, limit int) ([]domain.Endpoint, error) {
	endpoints := make([]domain.Endpoint, 0)
	if limit <= 0 {
		return endpoints, nil
	}

	now := r.clock.Now()
	values := r.entries.Values() // oldest first
	for i := len(values) - 1; i >= 0 && len(endpoints) < limit; i-- {
		if values[i].Expired(now, r.ttl) {
			continue
		}
		endpoints = append(endpoints, values[i].Endpoint)
	}

	return endpoints, nil
}
