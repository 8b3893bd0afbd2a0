package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityIsValid(t *testing.T) {
	tests := []struct {
		name     string
		priority Priority
		want     bool
	}{
		{"min", PriorityMin, true},
		{"low", PriorityLow, true},
		{"default", PriorityDefault, true},
		{"high", PriorityHigh, true},
		{"max", PriorityMax, true},
		{"empty", Priority(""), false},
		{"unknown", Priority("urgent"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.priority.IsValid())
		})
	}
}

func TestPriorityFromLevel(t *testing.T) {
	tests := []struct {
		name  string
		level int
		want  Priority
	}{
		{"min", -2, PriorityMin},
		{"low", -1, PriorityLow},
		{"default", 0, PriorityDefault},
		{"high", 1, PriorityHigh},
		{"max", 2, PriorityMax},
		{"below scale clamps to min", -7, PriorityMin},
		{"above scale clamps to max", 9, PriorityMax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PriorityFromLevel(tt.level))
		})
	}
}

func TestPriorityLevel(t *testing.T) {
	tests := []struct {
		name     string
		priority Priority
		want     int
	}{
		{"min", PriorityMin, -2},
		{"low", PriorityLow, -1},
		{"default", PriorityDefault, 0},
		{"high", PriorityHigh, 1},
		{"max", PriorityMax, 2},
		{"unknown falls back to default", Priority("bogus"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.priority.Level())
		})
	}
}

func TestPriorityUrgency(t *testing.T) {
	tests := []struct {
		name     string
		priority Priority
		want     byte
	}{
		{"min is low urgency", PriorityMin, 0},
		{"low is low urgency", PriorityLow, 0},
		{"default is normal", PriorityDefault, 1},
		{"high is critical", PriorityHigh, 2},
		{"max is critical", PriorityMax, 2},
		{"unknown is normal", Priority("bogus"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.priority.Urgency())
		})
	}
}

func TestTrayRecordFlags(t *testing.T) {
	tests := []struct {
		name            string
		flags           int
		wantAutoDismiss bool
		wantSticky      bool
	}{
		{"no flags", 0, false, false},
		{"auto dismiss only", FlagAutoDismiss, true, false},
		{"ongoing only", FlagOngoing, false, true},
		{"both", FlagAutoDismiss | FlagOngoing, true, true},
		{"unrelated bits ignored", 1 << 7, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := TrayRecord{Flags: tt.flags}
			assert.Equal(t, tt.wantAutoDismiss, record.AutoDismiss())
			assert.Equal(t, tt.wantSticky, record.Sticky())
		})
	}
}

func TestNewNotification(t *testing.T) {
	req := &NotificationRequest{
		Identifier: "req-1",
		Content:    &NotificationContent{Title: "hello"},
	}

	before := time.Now().UTC()
	notification := NewNotification(req)
	after := time.Now().UTC()

	require.NotNil(t, notification)
	assert.Same(t, req, notification.Request)
	assert.False(t, notification.Date.Before(before))
	assert.False(t, notification.Date.After(after))
}

func TestDefaultBehavior(t *testing.T) {
	behavior := DefaultBehavior()

	require.NotNil(t, behavior)
	assert.True(t, behavior.ShouldPresent)
	assert.True(t, behavior.ShouldPlaySound)
	assert.Empty(t, behavior.PriorityOverride)
}
