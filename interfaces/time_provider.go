package interfaces

import "time"

// TimeProvider supplies the current time for announcement timestamps and TTL checks.
// Injected so tests can move a mock clock across the TTL instead of sleeping.
//
//go:generate moq -stub -out mock/time_provider.go -pkg mock . TimeProvider
type TimeProvider interface {
	// Now returns current time (UTC).
	Now() time.Time
}
