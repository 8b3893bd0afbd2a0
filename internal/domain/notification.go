package domain

import (
	"time"
)

// Priority represents the presentation priority of a notification.
type Priority string

const (
	PriorityMin     Priority = "min"
	PriorityLow     Priority = "low"
	PriorityDefault Priority = "default"
	PriorityHigh    Priority = "high"
	PriorityMax     Priority = "max"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityMin, PriorityLow, PriorityDefault, PriorityHigh, PriorityMax:
		return true
	}
	return false
}

// PriorityFromLevel maps the host tray's -2..2 priority scale to a Priority.
// Out-of-range levels clamp to the nearest end of the scale.
func PriorityFromLevel(level int) Priority {
	switch {
	case level <= -2:
		return PriorityMin
	case level == -1:
		return PriorityLow
	case level == 0:
		return PriorityDefault
	case level == 1:
		return PriorityHigh
	}
	return PriorityMax
}

// Level returns the host tray's numeric value for the priority.
func (p Priority) Level() int {
	switch p {
	case PriorityMin:
		return -2
	case PriorityLow:
		return -1
	case PriorityHigh:
		return 1
	case PriorityMax:
		return 2
	}
	return 0 // default
}

// Urgency returns the freedesktop urgency byte (0 low, 1 normal, 2 critical).
func (p Priority) Urgency() byte {
	switch p {
	case PriorityMin, PriorityLow:
		return 0
	case PriorityHigh, PriorityMax:
		return 2
	}
	return 1
}

// NotificationContent holds the user-visible part of a notification request.
type NotificationContent struct {
	Title       string           `json:"title,omitempty"`
	Subtitle    string           `json:"subtitle,omitempty"`
	Text        string           `json:"text,omitempty"`
	Sound       string           `json:"sound,omitempty"`
	Priority    Priority         `json:"priority,omitempty"`
	Vibrate     []int64          `json:"vibrate,omitempty"`
	AutoDismiss bool             `json:"autoDismiss"`
	Sticky      bool             `json:"sticky"`
	Badge       *int             `json:"badge,omitempty"`
	Body        map[string]Value `json:"body,omitempty"`
}

// NotificationTrigger describes when a request should fire. Foreign
// notifications carry no trigger.
type NotificationTrigger struct {
	Type    string     `json:"type"`
	Repeats bool       `json:"repeats,omitempty"`
	Seconds int64      `json:"seconds,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
	Channel string     `json:"channelId,omitempty"`
}

// NotificationRequest is the application-level notification model.
type NotificationRequest struct {
	Identifier string               `json:"identifier"`
	Content    *NotificationContent `json:"content"`
	Trigger    *NotificationTrigger `json:"trigger,omitempty"`
	CategoryID string               `json:"categoryIdentifier,omitempty"`
}

// Notification pairs a request with the time it was posted to the tray.
type Notification struct {
	Request *NotificationRequest `json:"request"`
	Date    time.Time            `json:"date"`
}

// NewNotification wraps a request with the current timestamp.
func NewNotification(req *NotificationRequest) *Notification {
	return &Notification{
		Request: req,
		Date:    time.Now().UTC(),
	}
}

// Behavior overrides how a single presentation is rendered.
type Behavior struct {
	ShouldPresent    bool     `json:"shouldPresent"`
	ShouldPlaySound  bool     `json:"shouldPlaySound"`
	PriorityOverride Priority `json:"priorityOverride,omitempty"`
}

// DefaultBehavior presents with sound and the request's own priority.
func DefaultBehavior() *Behavior {
	return &Behavior{
		ShouldPresent:   true,
		ShouldPlaySound: true,
	}
}
