package handlers

import (
	"context"
	"fmt"
	"net/netip"

	"sixpmaster/domain"
	"sixpmaster/interfaces"
	"sixpmaster/service"
	"sixpmaster/sixp"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// SIXPServer is the protocol engine of the session information exchange protocol.
// It drives the two-step announce handshake without keeping per-peer state:
//
//	association_request(token)      -> info_request(token || challenge(addr))
//	info_response(challenge || info) -> registry upsert of (addr, port)
//
// Failed requests never produce a reply.
type SIXPServer struct {
	registry  interfaces.Registry
	authority interfaces.ChallengeAuthority
	sender    interfaces.DatagramSender
	clock     interfaces.TimeProvider
	metrics   *service.Metrics
	logger    log.Logger
}

var _ interfaces.DatagramHandler = (*SIXPServer)(nil)

// NewSIXPServer creates a new SIXPServer.
func NewSIXPServer(
	registry interfaces.Registry,
	authority interfaces.ChallengeAuthority,
	sender interfaces.DatagramSender,
	clock interfaces.TimeProvider,
	metrics *service.Metrics,
	logger log.Logger,
) *SIXPServer {
	return &SIXPServer{
		registry:  registry,
		authority: authority,
		sender:    sender,
		clock:     clock,
		metrics:   metrics,
		logger:    log.WithPrefix(logger, "component", "SIXPServer"),
	}
}

// HandleDatagram processes one datagram received from `from`.
// The returned error is already logged and counted; it is informational only and never
// reaches the peer. Safe for concurrent use.
func (s *SIXPServer) HandleDatagram(ctx context.Context, data []byte, from netip.AddrPort) error {
	frame, err := sixp.Decode(data)
	if err != nil {
		s.drop("", from, err)
		return fmt.Errorf("handleDatagram failed to decode frame, err: %w", err)
	}

	err = s.dispatch(ctx, frame, from)
	if err != nil {
		s.drop(frame.Type.String(), from, err)
		return fmt.Errorf("handleDatagram failed to handle %s, err: %w", frame.Type, err)
	}

	s.metrics.DatagramHandled(frame.Type.String(), nil)
	return nil
}

func (s *SIXPServer) dispatch(ctx context.Context, frame sixp.Frame, from netip.AddrPort) error {
	peer, ok := domain.NewEndpoint(from)
	if !ok {
		return service.NewUnsupportedFeatureError("only IPv4 peers are supported", fmt.Errorf("peer %s", from))
	}

	switch frame.Type {
	case sixp.AssociationRequest:
		return s.handleAssociationRequest(ctx, peer, frame.Payload)
	case sixp.InfoResponse:
		return s.handleInfoResponse(ctx, peer, frame.Payload)
	case sixp.ChallengeRequest, sixp.ChallengeResponse, sixp.InfoRequest, sixp.JoinRequest, sixp.JoinResponse:
		// Reserved for the full handshake.
		return service.NewUnknownMessageTypeError(fmt.Sprintf("no handler for SIXP type %s", frame.Type), nil)
	default:
		return service.NewUnknownMessageTypeError(fmt.Sprintf("no handler for SIXP type %d", uint8(frame.Type)), nil)
	}
}

// handleAssociationRequest answers a 4-byte token with an info_request carrying token || challenge(peer).
func (s *SIXPServer) handleAssociationRequest(ctx context.Context, peer domain.Endpoint, payload []byte) error {
	level.Info(s.logger).Log("msg", "Association request", "peer", peer)

	token, err := fromAssociationRequest(payload)
	if err != nil {
		return err
	}

	msg, err := sixp.Encode(sixp.InfoRequest, toInfoRequest(token, s.authority.Challenge(peer.Host)))
	if err != nil {
		return err
	}

	if err := s.sender.SendDatagram(ctx, msg, peer.AddrPort()); err != nil {
		return service.NewInternalServerError("can't send info request", err)
	}
	return nil
}

// handleInfoResponse verifies the echoed challenge and upserts the peer's announcement.
// A mismatching challenge is dropped before the metadata is looked at.
func (s *SIXPServer) handleInfoResponse(ctx context.Context, peer domain.Endpoint, payload []byte) error {
	echoed, blob, err := splitInfoResponse(payload)
	if err != nil {
		return err
	}

	if !s.authority.Verify(peer.Host, echoed) {
		return service.NewAuthenticationFailureError("challenge mismatch", nil)
	}

	info, err := fromMetadata(blob)
	if err != nil {
		return err
	}
	level.Debug(s.logger).Log("msg", "Info response", "peer", peer, "info", fmt.Sprint(info))

	announcement := domain.Announcement{
		Endpoint:      peer,
		LastAnnounced: s.clock.Now(),
		Info:          info,
	}
	if err := s.registry.Upsert(ctx, announcement); err != nil {
		return service.NewStorageFailureError("can't upsert announcement", err)
	}

	s.metrics.Announced()
	return nil
}

// drop logs and counts a datagram that was not processed.
// Malformed frames and challenge mismatches are logged at debug level only.
func (s *SIXPServer) drop(msgType string, from netip.AddrPort, err error) {
	s.metrics.DatagramHandled(msgType, err)

	var logLevel func(log.Logger) log.Logger
	switch service.ToSIXPErrorCode(err) {
	case service.ErrMalformedFrame, service.ErrAuthenticationFailure:
		logLevel = level.Debug
	case service.ErrUnknownMessageType:
		logLevel = level.Info
	case service.ErrUnsupportedFeature:
		logLevel = level.Warn
	default:
		logLevel = level.Error
	}
	logLevel(s.logger).Log("msg", "Datagram dropped", "peer", from, "type", msgType, "err", err)
}
