// Package udp carries SIXP datagrams over a UDP socket.
package udp

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"sixpmaster/interfaces"
)

type sender struct {
	conn *net.UDPConn
}

var _ interfaces.DatagramSender = (*sender)(nil)

// NewSender creates a DatagramSender writing through conn.
// Replies leave from the same socket the requests arrived on. The socket is shared by all workers,
// so no per-write deadline is set on it.
func NewSender(conn *net.UDPConn) *sender {
	return &sender{conn: conn}
}

func (s *sender) SendDatagram(ctx context.Context, b []byte, to netip.AddrPort) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("datagram to %s not sent, err: %w", to, err)
	}

	n, err := s.conn.WriteToUDPAddrPort(b, to)
	if err != nil {
		return fmt.Errorf("can't write datagram to %s, err: %w", to, err)
	}
	if n != len(b) {
		return fmt.Errorf("short datagram write to %s: %d of %d bytes", to, n, len(b))
	}
	return nil
}
