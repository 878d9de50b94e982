package interfaces

import (
	"net/netip"

	"sixpmaster/domain"
)

// ChallengeAuthority binds challenges to source addresses. Implemented by service.NewChallengeAuthority.
type ChallengeAuthority interface {
	// Challenge returns the challenge for host; deterministic for the process lifetime.
	Challenge(host netip.Addr) domain.Challenge

	// Verify reports whether echoed equals Challenge(host).
	Verify(host netip.Addr, echoed []byte) bool
}
