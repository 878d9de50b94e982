package service

import (
	"time"

	"sixpmaster/interfaces"

	"github.com/benbjohnson/clock"
)

// timeProvider implements interfaces.TimeProvider on top of a clock.Clock.
// Production uses clock.New(); tests use clock.NewMock() to move time across the announcement TTL.
type timeProvider struct {
	clock clock.Clock
}

// NewTimeProvider creates a TimeProvider reading the given clock. Panics on nil clock.
func NewTimeProvider(c clock.Clock) interfaces.TimeProvider {
	if c == nil {
		panic("service.time_provider.go: clock is required")
	}
	return &timeProvider{clock: c}
}

// Now returns the current UTC time.
func (t *timeProvider) Now() time.Time {
	return t.clock.Now().UTC()
}
