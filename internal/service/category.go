package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relay-one/tray-service/internal/domain"
)

// CategoryService handles notification category business logic
type CategoryService struct {
	repo   domain.CategoryRepository
	logger *slog.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(repo domain.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		repo:   repo,
		logger: logger,
	}
}

// SetCategoryRequest represents a request to create or replace a category
type SetCategoryRequest struct {
	Identifier string                  `json:"identifier" validate:"required,min=1,max=100"`
	Actions    []domain.CategoryAction `json:"actions" validate:"required,min=1,dive"`
}

// Set creates or replaces a category.
func (s *CategoryService) Set(ctx context.Context, req SetCategoryRequest) (*domain.NotificationCategory, error) {
	for i, action := range req.Actions {
		if action.Identifier == "" {
			return nil, domain.NewValidationError(
				fmt.Sprintf("actions[%d].identifier", i), "action identifier is required")
		}
	}

	category := domain.NewNotificationCategory(req.Identifier, req.Actions)
	if err := s.repo.Upsert(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to store category: %w", err)
	}

	s.logger.Info("category stored",
		"identifier", category.Identifier,
		"actions", len(category.Actions),
	)
	return category, nil
}

// Get retrieves a category by identifier
func (s *CategoryService) Get(ctx context.Context, identifier string) (*domain.NotificationCategory, error) {
	return s.repo.GetByIdentifier(ctx, identifier)
}

// List retrieves all categories
func (s *CategoryService) List(ctx context.Context) ([]*domain.NotificationCategory, error) {
	return s.repo.List(ctx)
}

// Delete deletes a category
func (s *CategoryService) Delete(ctx context.Context, identifier string) error {
	if err := s.repo.Delete(ctx, identifier); err != nil {
		return err
	}

	s.logger.Info("category deleted", "identifier", identifier)
	return nil
}
