package domain

import (
	"context"
	"time"
)

// CategoryAction is a button or text input rendered on notifications that
// reference the category.
type CategoryAction struct {
	Identifier           string  `json:"identifier"`
	Title                string  `json:"title"`
	OpensApp             bool    `json:"opensApp"`
	TextInputPlaceholder *string `json:"textInputPlaceholder,omitempty"`
}

// NotificationCategory groups the actions a notification can expose.
type NotificationCategory struct {
	Identifier string           `json:"identifier"`
	Actions    []CategoryAction `json:"actions"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// NewNotificationCategory creates a category with the given actions.
func NewNotificationCategory(identifier string, actions []CategoryAction) *NotificationCategory {
	now := time.Now().UTC()
	return &NotificationCategory{
		Identifier: identifier,
		Actions:    actions,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

type CategoryRepository interface {
	Upsert(ctx context.Context, category *NotificationCategory) error
	GetByIdentifier(ctx context.Context, identifier string) (*NotificationCategory, error)
	List(ctx context.Context) ([]*NotificationCategory, error)
	Delete(ctx context.Context, identifier string) error
}

// HistoryEntry records a single presentation for later inspection.
type HistoryEntry struct {
	ID          string     `json:"id" db:"id"`
	Identifier  string     `json:"identifier" db:"identifier"`
	Tag         string     `json:"tag" db:"tag"`
	Title       string     `json:"title" db:"title"`
	PresentedAt time.Time  `json:"presented_at" db:"presented_at"`
	DismissedAt *time.Time `json:"dismissed_at,omitempty" db:"dismissed_at"`
}

type HistoryRepository interface {
	Record(ctx context.Context, entry *HistoryEntry) error
	MarkDismissed(ctx context.Context, identifier string, at time.Time) error
	MarkAllDismissed(ctx context.Context, at time.Time) error
	List(ctx context.Context, limit int) ([]*HistoryEntry, error)
}
