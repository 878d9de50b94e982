package domain

import (
	"net/netip"
	"time"
)

const (
	// AnnouncementTTL is how long an announcement stays visible after its last verified refresh.
	AnnouncementTTL = 180 * time.Second

	// MaxDirectoryEntries caps the number of endpoints in a single directory listing.
	MaxDirectoryEntries = 1024

	// DirectoryRecordSize is the width of one listing record: 4 bytes IPv4 + 2 bytes port.
	DirectoryRecordSize = 6

	// ChallengeSize is the length of a challenge and of an association token.
	ChallengeSize = 4
)

// Endpoint is the registry key of an announced server.
type Endpoint struct {
	Host netip.Addr // IPv4 only
	Port uint16
}

// NewEndpoint builds an Endpoint from a datagram source, unmapping IPv4-mapped IPv6 addresses.
// ok is false when the address is not IPv4.
func NewEndpoint(addr netip.AddrPort) (Endpoint, bool) {
	host := addr.Addr().Unmap()
	if !host.Is4() {
		return Endpoint{}, false
	}
	return Endpoint{Host: host, Port: addr.Port()}, true
}

// AddrPort returns the endpoint as a netip.AddrPort.
func (e Endpoint) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(e.Host, e.Port)
}

func (e Endpoint) String() string {
	return e.AddrPort().String()
}

// Announcement is a server's self-reported presence record.
type Announcement struct {
	Endpoint
	LastAnnounced time.Time      // last successful verified announcement
	Info          map[any]any // opaque metadata supplied by the server, keys of any msgpack type
}

// Expired reports whether the announcement is older than ttl at now.
func (a Announcement) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(a.LastAnnounced) > ttl
}

// Challenge proves that a peer controls the address it sends from.
type Challenge [ChallengeSize]byte

// Token is the opaque correlation value a client sends in an association request.
type Token [ChallengeSize]byte
