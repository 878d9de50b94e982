package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSIXPError(t *testing.T) {
	inner := errors.New("underlying")
	e := NewSIXPError(ErrMalformedFrame, "bad magic", inner)
	require.NotNil(t, e)
	assert.Equal(t, ErrMalformedFrame, e.Code)
	assert.Equal(t, "bad magic", e.Message)
	assert.Same(t, inner, e.Inner)
	assert.Equal(t, "malformed_frame bad magic: underlying", e.Error())
}

func TestSIXPError_ErrorWithoutInner(t *testing.T) {
	e := NewUnknownMessageTypeError("no handler", nil)
	assert.Equal(t, "unknown_message_type no handler", e.Error())
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   *SIXPError
		code  string
		check func(error) bool
	}{
		{"internal", NewInternalServerError("x", nil), ErrInternalServerError, IsInternalServerError},
		{"not found", NewEntityNotFoundError("x", nil), ErrEntityNotFound, IsEntityNotFoundError},
		{"bad parameter", NewBadParameterError("x", nil), ErrBadParameter, IsBadParameterError},
		{"malformed", NewMalformedFrameError("x", nil), ErrMalformedFrame, IsMalformedFrameError},
		{"unsupported", NewUnsupportedFeatureError("x", nil), ErrUnsupportedFeature, IsUnsupportedFeatureError},
		{"authentication", NewAuthenticationFailureError("x", nil), ErrAuthenticationFailure, IsAuthenticationFailureError},
		{"unknown type", NewUnknownMessageTypeError("x", nil), ErrUnknownMessageType, IsUnknownMessageTypeError},
		{"storage", NewStorageFailureError("x", nil), ErrStorageFailure, IsStorageFailureError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.True(t, tt.check(tt.err))
			assert.True(t, tt.check(fmt.Errorf("wrapped: %w", tt.err)))
			assert.Equal(t, tt.code, ToSIXPErrorCode(tt.err))
		})
	}
}

func TestConstructors_KeepClassifiedInner(t *testing.T) {
	inner := NewUnsupportedFeatureError("split", nil)
	got := NewMalformedFrameError("outer", fmt.Errorf("decode: %w", inner))
	assert.Same(t, inner, got)
}

func TestToSIXPError_WithSIXPError(t *testing.T) {
	e := NewBadParameterError("bad", nil)
	got := ToSIXPError(e)
	require.NotNil(t, got)
	assert.Same(t, e, got)
}

func TestToSIXPError_WithOrdinaryError(t *testing.T) {
	e := errors.New("plain")
	assert.Nil(t, ToSIXPError(e))
	assert.Equal(t, "", ToSIXPErrorCode(e))
	assert.False(t, IsStorageFailureError(e))
}
