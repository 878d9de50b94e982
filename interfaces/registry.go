package interfaces

import (
	"context"

	"sixpmaster/domain"
)

// Registry is the session registry: announced servers keyed by (host, port), bounded by a TTL.
// Implementations must be safe for concurrent use.
//
//go:generate moq -stub -out mock/registry.go -pkg mock . Registry
type Registry interface {
	// EnsureIndexes establishes the (host, port) uniqueness and TTL layout of the store.
	// Idempotent, called on every start.
	// Returns:
	// 1) nil on success;
	// 2) storage_failure when the store can't be reached.
	EnsureIndexes(ctx context.Context) error

	// Upsert creates or replaces the announcement for a.Endpoint.
	// Returns:
	// 1) nil on success;
	// 2) storage_failure when marshalling or the storage write fails.
	Upsert(ctx context.Context, a domain.Announcement) error

	// QueryRecent returns at most limit endpoints announced within the TTL at the time of the call.
	// Order is arbitrary but stable. An empty registry yields an empty slice and no error.
	// Returns:
	// 1) (endpoints, nil) on success;
	// 2) (nil, storage_failure) when the store can't be read.
	QueryRecent(ctx context.Context, limit int) ([]domain.Endpoint, error)
}
