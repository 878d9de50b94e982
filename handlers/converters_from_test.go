package handlers

import (
	"testing"

	"sixpmaster/domain"
	"sixpmaster/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAssociationRequest(t *testing.T) {
	tests := []struct {
		name          string
		payload       []byte
		expected      domain.Token
		expectedError string
	}{
		{
			name:     "valid",
			payload:  []byte{1, 2, 3, 4},
			expected: domain.Token{1, 2, 3, 4},
		},
		{
			name:          "empty",
			payload:       nil,
			expectedError: "invalid association request",
		},
		{
			name:          "too short",
			payload:       []byte{1, 2, 3},
			expectedError: "invalid association request",
		},
		{
			name:          "too long",
			payload:       []byte{1, 2, 3, 4, 5},
			expectedError: "invalid association request",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fromAssociationRequest(tt.payload)
			if tt.expectedError != "" {
				require.Error(t, err)
				sixpErr := service.ToSIXPError(err)
				require.NotNil(t, sixpErr)
				assert.Equal(t, service.ErrMalformedFrame, sixpErr.Code)
				assert.Equal(t, tt.expectedError, sixpErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSplitInfoResponse(t *testing.T) {
	echoed, metadata, err := splitInfoResponse([]byte{1, 2, 3, 4, 0x80})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, echoed)
	assert.Equal(t, []byte{0x80}, metadata)

	echoed, metadata, err = splitInfoResponse([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, echoed)
	assert.Empty(t, metadata)

	_, _, err = splitInfoResponse([]byte{1, 2})
	require.Error(t, err)
	assert.True(t, service.IsMalformedFrameError(err))
}

func TestFromMetadata(t *testing.T) {
	blob, err := service.MarshalMsgpack(map[string]any{"name": "srv", "version": "1.0"})
	require.NoError(t, err)

	info, err := fromMetadata(blob)
	require.NoError(t, err)
	assert.Equal(t, map[any]any{"name": "srv", "version": "1.0"}, info)

	empty, err := service.MarshalMsgpack(map[string]any{})
	require.NoError(t, err)
	info, err = fromMetadata(empty)
	require.NoError(t, err)
	assert.Empty(t, info)

	for _, bad := range [][]byte{nil, {0xc1}, {0xc0}, {0x93, 1, 2, 3}, {0x81, 0x81, 0x01, 0x02, 0x03}} {
		_, err := fromMetadata(bad)
		require.Error(t, err, "blob %x", bad)
		assert.True(t, service.IsMalformedFrameError(err))
	}
}

func TestFromMetadata_NonStringKeys(t *testing.T) {
	tests := []struct {
		name string
		blob any
	}{
		{name: "integer keys", blob: map[int]string{1: "a"}},
		{name: "nested integer keys", blob: map[string]any{"players": map[int]string{1: "bob"}}},
		{name: "mixed keys", blob: map[any]any{"name": "srv", 7: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := service.MarshalMsgpack(tt.blob)
			require.NoError(t, err)

			info, err := fromMetadata(blob)
			require.NoError(t, err)
			assert.NotEmpty(t, info)
		})
	}
}
