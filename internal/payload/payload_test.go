package payload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relay-one/tray-service/internal/domain"
)

func sampleRequest() *domain.NotificationRequest {
	return &domain.NotificationRequest{
		Identifier: "req-123",
		Content: &domain.NotificationContent{
			Title:       "Build finished",
			Text:        "All 42 targets compiled",
			Priority:    domain.PriorityHigh,
			AutoDismiss: true,
			Body: map[string]domain.Value{
				"target": domain.StringValue("release"),
				"count":  domain.NumberValue(42),
			},
		},
		CategoryID: "builds",
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	codec := NewEnvelope()
	original := sampleRequest()

	data, err := codec.Marshal(original)
	require.NoError(t, err)
	require.Greater(t, len(data), headerLen)

	decoded, err := codec.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestEnvelopeMarshal(t *testing.T) {
	codec := NewEnvelope()

	t.Run("nil request", func(t *testing.T) {
		_, err := codec.Marshal(nil)
		assert.ErrorIs(t, err, ErrMissingRequest)
	})

	t.Run("header layout", func(t *testing.T) {
		data, err := codec.Marshal(sampleRequest())
		require.NoError(t, err)

		assert.Equal(t, []byte("XNRQ"), data[0:4])
		assert.Equal(t, byte(0x01), data[4])
	})
}

func TestEnvelopeUnmarshal(t *testing.T) {
	codec := NewEnvelope()

	valid, err := codec.Marshal(sampleRequest())
	require.NoError(t, err)

	t.Run("truncated header", func(t *testing.T) {
		_, err := codec.Unmarshal(valid[:5])
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("empty buffer", func(t *testing.T) {
		_, err := codec.Unmarshal(nil)
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("truncated body", func(t *testing.T) {
		_, err := codec.Unmarshal(valid[:len(valid)-1])
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("bad magic", func(t *testing.T) {
		corrupt := append([]byte(nil), valid...)
		corrupt[0] = 'Z'
		_, err := codec.Unmarshal(corrupt)
		assert.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("unknown version", func(t *testing.T) {
		corrupt := append([]byte(nil), valid...)
		corrupt[4] = 0x7f
		_, err := codec.Unmarshal(corrupt)
		assert.ErrorIs(t, err, ErrUnknownVersion)
	})

	t.Run("corrupt body", func(t *testing.T) {
		corrupt := append([]byte(nil), valid...)
		corrupt[headerLen] = '!'
		_, err := codec.Unmarshal(corrupt)
		assert.Error(t, err)
	})

	t.Run("missing identifier", func(t *testing.T) {
		data, err := codec.Marshal(&domain.NotificationRequest{
			Content: &domain.NotificationContent{Title: "no id"},
		})
		require.NoError(t, err)

		_, err = codec.Unmarshal(data)
		assert.ErrorIs(t, err, ErrMissingRequest)
	})
}

func TestFromExtras(t *testing.T) {
	codec := NewEnvelope()

	data, err := codec.Marshal(sampleRequest())
	require.NoError(t, err)

	tests := []struct {
		name     string
		extras   map[string]any
		wantData []byte
		wantOK   bool
	}{
		{"payload present", map[string]any{ExtrasKey: data, "other": "x"}, data, true},
		{"no payload", map[string]any{"other": "x"}, nil, false},
		{"nil extras", nil, nil, false},
		{"wrong type counts as corrupt", map[string]any{ExtrasKey: "not bytes"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromExtras(tt.extras)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantData, got)
		})
	}
}

func TestEnvelopePreservesDate(t *testing.T) {
	codec := NewEnvelope()

	fireAt := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	req := sampleRequest()
	req.Trigger = &domain.NotificationTrigger{
		Type: "date",
		Date: &fireAt,
	}

	data, err := codec.Marshal(req)
	require.NoError(t, err)

	decoded, err := codec.Unmarshal(data)
	require.NoError(t, err)
	require.NotNil(t, decoded.Trigger)
	require.NotNil(t, decoded.Trigger.Date)
	assert.True(t, fireAt.Equal(*decoded.Trigger.Date))
}
