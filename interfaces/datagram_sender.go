package interfaces

import (
	"context"
	"net/netip"
)

// DatagramSender writes one datagram to a remote peer. Implemented by adapters/udp.
//
//go:generate moq -stub -out mock/datagram_sender.go -pkg mock . DatagramSender
type DatagramSender interface {
	// SendDatagram writes b to the given address as a single datagram.
	SendDatagram(ctx context.Context, b []byte, to netip.AddrPort) error
}
