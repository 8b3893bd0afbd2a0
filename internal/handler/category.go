package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/relay-one/tray-service/internal/domain"
	"github.com/relay-one/tray-service/internal/service"
)

// CategoryHandler handles notification category HTTP requests
type CategoryHandler struct {
	service  *service.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(service *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Set)
	r.Get("/", h.List)
	r.Get("/{identifier}", h.Get)
	r.Delete("/{identifier}", h.Delete)
}

// SetCategoryRequest represents a request to create or replace a category
type SetCategoryRequest struct {
	Identifier string                  `json:"identifier" validate:"required,min=1,max=100" example:"message"`
	Actions    []domain.CategoryAction `json:"actions" validate:"required,min=1,dive"`
}

// Set creates or replaces a category
// @Summary Set category
// @Description Create or replace a notification category and its actions
// @Tags categories
// @Accept json
// @Produce json
// @Param category body SetCategoryRequest true "Category request"
// @Success 201 {object} Response{data=domain.NotificationCategory}
// @Failure 400 {object} Response
// @Failure 500 {object} Response
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req SetCategoryRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleError(w, err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	category, err := h.service.Set(r.Context(), service.SetCategoryRequest{
		Identifier: req.Identifier,
		Actions:    req.Actions,
	})
	if err != nil {
		HandleError(w, err)
		return
	}

	JSON(w, http.StatusCreated, category)
}

// List retrieves all categories
// @Summary List categories
// @Description Get all notification categories
// @Tags categories
// @Produce json
// @Success 200 {object} Response{data=[]domain.NotificationCategory}
// @Failure 500 {object} Response
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}

	JSON(w, http.StatusOK, categories)
}

// Get retrieves a category by identifier
// @Summary Get category
// @Description Get a notification category by identifier
// @Tags categories
// @Produce json
// @Param identifier path string true "Category identifier"
// @Success 200 {object} Response{data=domain.NotificationCategory}
// @Failure 404 {object} Response
// @Failure 500 {object} Response
// @Router /api/v1/categories/{identifier} [get]
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	category, err := h.service.Get(r.Context(), identifier)
	if err != nil {
		HandleError(w, err)
		return
	}

	JSON(w, http.StatusOK, category)
}

// Delete deletes a category by identifier
// @Summary Delete category
// @Description Delete a notification category
// @Tags categories
// @Produce json
// @Param identifier path string true "Category identifier"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Failure 500 {object} Response
// @Router /api/v1/categories/{identifier} [delete]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	if err := h.service.Delete(r.Context(), identifier); err != nil {
		HandleError(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
