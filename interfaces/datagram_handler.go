package interfaces

import (
	"context"
	"net/netip"
)

// DatagramHandler processes one inbound datagram. Implemented by handlers.SIXPServer.
//
//go:generate moq -stub -out mock/datagram_handler.go -pkg mock . DatagramHandler
type DatagramHandler interface {
	// HandleDatagram handles data received from `from`. data is owned by the callee.
	HandleDatagram(ctx context.Context, data []byte, from netip.AddrPort) error
}
