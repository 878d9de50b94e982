package handlers

import (
	"fmt"

	"sixpmaster/domain"
	"sixpmaster/service"
)

// fromAssociationRequest extracts the client token of an association_request payload.
// Returns service.MalformedFrameError unless the payload is exactly one token long.
func fromAssociationRequest(payload []byte) (domain.Token, error) {
	var token domain.Token
	if len(payload) != len(token) {
		return token, service.NewMalformedFrameError(
			"invalid association request",
			fmt.Errorf("payload is %d bytes, want %d", len(payload), len(token)),
		)
	}
	copy(token[:], payload)
	return token, nil
}

// splitInfoResponse splits an info_response payload into the echoed challenge and the metadata blob.
// Returns service.MalformedFrameError when the payload is shorter than a challenge.
func splitInfoResponse(payload []byte) (echoed []byte, metadata []byte, err error) {
	if len(payload) < domain.ChallengeSize {
		return nil, nil, service.NewMalformedFrameError(
			"invalid info response",
			fmt.Errorf("payload is %d bytes, want at least %d", len(payload), domain.ChallengeSize),
		)
	}
	return payload[:domain.ChallengeSize], payload[domain.ChallengeSize:], nil
}

// fromMetadata decodes the msgpack map a server describes itself with.
// Returns service.MalformedFrameError on anything that is not a single well-formed map.
func fromMetadata(blob []byte) (map[any]any, error) {
	var info map[any]any
	if err := service.UnmarshalMsgpack(blob, &info); err != nil {
		return nil, service.NewMalformedFrameError("invalid info response metadata", err)
	}
	if info == nil {
		return nil, service.NewMalformedFrameError("info response metadata is not a map", nil)
	}
	return info, nil
}
