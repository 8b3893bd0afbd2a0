package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/relay-one/tray-service/internal/domain"
)

// HistoryRepository implements domain.HistoryRepository using SQLite
type HistoryRepository struct {
	db *DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

type historyRow struct {
	ID          string  `db:"id"`
	Identifier  string  `db:"identifier"`
	Tag         string  `db:"tag"`
	Title       string  `db:"title"`
	PresentedAt string  `db:"presented_at"`
	DismissedAt *string `db:"dismissed_at"`
}

// Record appends a presentation entry.
func (r *HistoryRepository) Record(ctx context.Context, entry *domain.HistoryEntry) error {
	query := `
		INSERT INTO presentation_history (id, identifier, tag, title, presented_at, dismissed_at)
		VALUES (?, ?, ?, ?, ?, NULL)
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		entry.ID,
		entry.Identifier,
		entry.Tag,
		entry.Title,
		entry.PresentedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to record history entry: %w", err)
	}
	return nil
}

// MarkDismissed stamps the open entries for an identifier.
func (r *HistoryRepository) MarkDismissed(ctx context.Context, identifier string, at time.Time) error {
	query := `
		UPDATE presentation_history
		SET dismissed_at = ?
		WHERE identifier = ? AND dismissed_at IS NULL
	`

	if _, err := r.db.DB.ExecContext(ctx, query, at.Format(timeLayout), identifier); err != nil {
		return fmt.Errorf("failed to mark history entry dismissed: %w", err)
	}
	return nil
}

// MarkAllDismissed stamps every open entry.
func (r *HistoryRepository) MarkAllDismissed(ctx context.Context, at time.Time) error {
	query := "UPDATE presentation_history SET dismissed_at = ? WHERE dismissed_at IS NULL"

	if _, err := r.db.DB.ExecContext(ctx, query, at.Format(timeLayout)); err != nil {
		return fmt.Errorf("failed to mark history dismissed: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (r *HistoryRepository) List(ctx context.Context, limit int) ([]*domain.HistoryEntry, error) {
	var rows []historyRow
	err := r.db.DB.SelectContext(ctx, &rows, `
		SELECT id, identifier, tag, title, presented_at, dismissed_at
		FROM presentation_history
		ORDER BY presented_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]*domain.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entry := &domain.HistoryEntry{
			ID:         row.ID,
			Identifier: row.Identifier,
			Tag:        row.Tag,
			Title:      row.Title,
		}

		presentedAt, err := parseTime(row.PresentedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse presented_at for %q: %w", row.ID, err)
		}
		entry.PresentedAt = presentedAt

		if row.DismissedAt != nil {
			dismissedAt, err := parseTime(*row.DismissedAt)
			if err != nil {
				return nil, fmt.Errorf("failed to parse dismissed_at for %q: %w", row.ID, err)
			}
			entry.DismissedAt = &dismissedAt
		}

		entries = append(entries, entry)
	}
	return entries, nil
}
