package service

import (
	"errors"
	"fmt"
)

const (
	// ErrInternalServerError means that an internal server error has occurred.
	ErrInternalServerError = "internal_server_error"
	// ErrEntityNotFound means that record is absent in the registry.
	ErrEntityNotFound = "entity_not_found"
	// ErrBadParameter means that provided parameter does not match declared.
	ErrBadParameter = "bad_parameter"
	// ErrMalformedFrame means that a datagram is not a well-formed SIXP message.
	ErrMalformedFrame = "malformed_frame"
	// ErrUnsupportedFeature means that a message needs a protocol feature that is not implemented (e.g. splitting).
	ErrUnsupportedFeature = "unsupported_feature"
	// ErrAuthenticationFailure means that an echoed challenge does not match the sender address.
	ErrAuthenticationFailure = "authentication_failure"
	// ErrUnknownMessageType means that no handler exists for a message type.
	ErrUnknownMessageType = "unknown_message_type"
	// ErrStorageFailure means that the session registry could not be read or written.
	ErrStorageFailure = "storage_failure"
)

// SIXPError represents an error within the context of the sixpmaster services.
type SIXPError struct {
	// Code is a machine-readable code.
	Code string `json:"code,omitempty"`
	// Message is a human-readable message.
	Message string `json:"message"`
	// Inner is a wrapped error that is never shown to API consumers or remote peers.
	Inner error `json:"-"`
}

// NewSIXPError creates a new SIXPError.
func NewSIXPError(code string, message string, inner error) *SIXPError {
	return &SIXPError{
		Code:    code,
		Message: message,
		Inner:   inner,
	}
}

// newCoded keeps an already classified inner error instead of reclassifying it.
func newCoded(code string, message string, inner error) *SIXPError {
	if myInner := ToSIXPError(inner); myInner != nil {
		return myInner
	}

	return NewSIXPError(code, message, inner)
}

func NewInternalServerError(message string, inner error) *SIXPError {
	return newCoded(ErrInternalServerError, message, inner)
}

func NewEntityNotFoundError(message string, inner error) *SIXPError {
	return newCoded(ErrEntityNotFound, message, inner)
}

func NewBadParameterError(message string, inner error) *SIXPError {
	return newCoded(ErrBadParameter, message, inner)
}

func NewMalformedFrameError(message string, inner error) *SIXPError {
	return newCoded(ErrMalformedFrame, message, inner)
}

func NewUnsupportedFeatureError(message string, inner error) *SIXPError {
	return newCoded(ErrUnsupportedFeature, message, inner)
}

func NewAuthenticationFailureError(message string, inner error) *SIXPError {
	return newCoded(ErrAuthenticationFailure, message, inner)
}

func NewUnknownMessageTypeError(message string, inner error) *SIXPError {
	return newCoded(ErrUnknownMessageType, message, inner)
}

func NewStorageFailureError(message string, inner error) *SIXPError {
	return newCoded(ErrStorageFailure, message, inner)
}

func (e SIXPError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("%s %s: %v", e.Code, e.Message, e.Inner)
	}

	return fmt.Sprintf("%s %s", e.Code, e.Message)
}

// Unwrap the error returning the error's reason.
func (e SIXPError) Unwrap() error {
	return e.Inner
}

// ToSIXPError returns a pointer to a sixpmaster error, or nil if it is not a sixpmaster error.
func ToSIXPError(err error) *SIXPError {
	var e *SIXPError
	if errors.As(err, &e) {
		return e
	}

	return nil
}

// ToSIXPErrorCode returns the code of the error, if available.
func ToSIXPErrorCode(err error) string {
	sixpErr := ToSIXPError(err)
	if sixpErr != nil {
		return sixpErr.Code
	}
	return ""
}

func IsSIXPError(err error, code string) bool {
	sixpErr := ToSIXPError(err)
	if sixpErr != nil {
		return sixpErr.Code == code
	}
	return false
}

func IsInternalServerError(err error) bool {
	return IsSIXPError(err, ErrInternalServerError)
}

func IsEntityNotFoundError(err error) bool {
	return IsSIXPError(err, ErrEntityNotFound)
}

func IsBadParameterError(err error) bool {
	return IsSIXPError(err, ErrBadParameter)
}

func IsMalformedFrameError(err error) bool {
	return IsSIXPError(err, ErrMalformedFrame)
}

func IsUnsupportedFeatureError(err error) bool {
	return IsSIXPError(err, ErrUnsupportedFeature)
}

func IsAuthenticationFailureError(err error) bool {
	return IsSIXPError(err, ErrAuthenticationFailure)
}

func IsUnknownMessageTypeError(err error) bool {
	return IsSIXPError(err, ErrUnknownMessageType)
}

func IsStorageFailureError(err error) bool {
	return IsSIXPError(err, ErrStorageFailure)
}
