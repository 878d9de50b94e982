package sixp

import "fmt"

// MessageType selects the payload variant of a frame.
type MessageType uint8

// Message types in wire order.
const (
	ChallengeRequest MessageType = iota
	ChallengeResponse
	AssociationRequest
	InfoRequest
	InfoResponse
	JoinRequest
	JoinResponse
)

var messageTypeNames = [...]string{
	ChallengeRequest:   "challenge_request",
	ChallengeResponse:  "challenge_response",
	AssociationRequest: "association_request",
	InfoRequest:        "info_request",
	InfoResponse:       "info_response",
	JoinRequest:        "join_request",
	JoinResponse:       "join_response",
}

// Known reports whether t is one of the declared message types.
func (t MessageType) Known() bool {
	return int(t) < len(messageTypeNames)
}

func (t MessageType) String() string {
	if t.Known() {
		return messageTypeNames[t]
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}
