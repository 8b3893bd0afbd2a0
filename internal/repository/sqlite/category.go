package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/relay-one/tray-service/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using SQLite
type CategoryRepository struct {
	db *DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

type categoryRow struct {
	Identifier string `db:"identifier"`
	Actions    string `db:"actions"`
	CreatedAt  string `db:"created_at"`
	UpdatedAt  string `db:"updated_at"`
}

// Upsert creates or replaces a category.
func (r *CategoryRepository) Upsert(ctx context.Context, category *domain.NotificationCategory) error {
	actions, err := json.Marshal(category.Actions)
	if err != nil {
		return fmt.Errorf("failed to encode actions: %w", err)
	}

	query := `
		INSERT INTO categories (identifier, actions, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (identifier) DO UPDATE SET
			actions = excluded.actions,
			updated_at = excluded.updated_at
	`

	_, err = r.db.DB.ExecContext(ctx, query,
		category.Identifier,
		string(actions),
		category.CreatedAt.Format(timeLayout),
		category.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert category: %w", err)
	}
	return nil
}

// GetByIdentifier retrieves a category by identifier
func (r *CategoryRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.NotificationCategory, error) {
	var row categoryRow
	err := r.db.DB.GetContext(ctx, &row,
		"SELECT identifier, actions, created_at, updated_at FROM categories WHERE identifier = ?",
		identifier,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return row.toDomain()
}

// List retrieves all categories ordered by identifier
func (r *CategoryRepository) List(ctx context.Context) ([]*domain.NotificationCategory, error) {
	var rows []categoryRow
	err := r.db.DB.SelectContext(ctx, &rows,
		"SELECT identifier, actions, created_at, updated_at FROM categories ORDER BY identifier",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]*domain.NotificationCategory, 0, len(rows))
	for _, row := range rows {
		category, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// Delete deletes a category by identifier
func (r *CategoryRepository) Delete(ctx context.Context, identifier string) error {
	result, err := r.db.DB.ExecContext(ctx, "DELETE FROM categories WHERE identifier = ?", identifier)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (row categoryRow) toDomain() (*domain.NotificationCategory, error) {
	category := &domain.NotificationCategory{
		Identifier: row.Identifier,
	}

	if err := json.Unmarshal([]byte(row.Actions), &category.Actions); err != nil {
		return nil, fmt.Errorf("failed to decode actions for %q: %w", row.Identifier, err)
	}

	var err error
	if category.CreatedAt, err = parseTime(row.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at for %q: %w", row.Identifier, err)
	}
	if category.UpdatedAt, err = parseTime(row.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at for %q: %w", row.Identifier, err)
	}
	return category, nil
}
