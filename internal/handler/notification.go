package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/relay-one/tray-service/internal/config"
	"github.com/relay-one/tray-service/internal/domain"
	"github.com/relay-one/tray-service/internal/service"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	presenter *service.Presenter
	metrics   *Metrics
	history   config.HistoryConfig
	validate  *validator.Validate
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(presenter *service.Presenter, metrics *Metrics, history config.HistoryConfig) *NotificationHandler {
	return &NotificationHandler{
		presenter: presenter,
		metrics:   metrics,
		history:   history,
		validate:  validator.New(),
	}
}

// RegisterRoutes registers notification routes
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Present)
	r.Get("/", h.ListPresented)
	r.Post("/dismiss", h.Dismiss)
	r.Delete("/", h.DismissAll)
	r.Get("/history", h.History)
}

// BehaviorRequest overrides presentation behavior for a single request
type BehaviorRequest struct {
	ShouldPresent   *bool           `json:"shouldPresent,omitempty"`
	ShouldPlaySound *bool           `json:"shouldPlaySound,omitempty"`
	Priority        domain.Priority `json:"priority,omitempty" validate:"omitempty,oneof=min low default high max"`
}

// PresentNotificationRequest represents a request to present a notification
// @Description Request to present a notification in the host tray
type PresentNotificationRequest struct {
	Identifier  string                  `json:"identifier,omitempty" example:"reminder-42"`
	Title       string                  `json:"title" example:"Time to stand up"`
	Subtitle    string                  `json:"subtitle,omitempty"`
	Text        string                  `json:"text,omitempty" example:"You have been sitting for an hour"`
	Sound       string                  `json:"sound,omitempty" example:"default"`
	Priority    domain.Priority         `json:"priority,omitempty" validate:"omitempty,oneof=min low default high max" example:"default"`
	Vibrate     []int64                 `json:"vibrate,omitempty"`
	AutoDismiss *bool                   `json:"autoDismiss,omitempty"`
	Sticky      bool                    `json:"sticky,omitempty"`
	Badge       *int                    `json:"badge,omitempty"`
	Body        map[string]domain.Value `json:"body,omitempty"`
	CategoryID  string                  `json:"categoryIdentifier,omitempty"`
	Behavior    *BehaviorRequest        `json:"behavior,omitempty"`
}

// Present presents a notification in the host tray
// @Summary Present notification
// @Description Display a notification in the host tray
// @Tags notifications
// @Accept json
// @Produce json
// @Param notification body PresentNotificationRequest true "Notification request"
// @Success 201 {object} Response{data=domain.Notification}
// @Failure 400 {object} Response
// @Failure 503 {object} Response
// @Router /api/v1/notifications [post]
func (h *NotificationHandler) Present(w http.ResponseWriter, r *http.Request) {
	var req PresentNotificationRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleError(w, err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	if req.Title == "" && req.Text == "" {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed",
			"either title or text is required")
		return
	}

	identifier := req.Identifier
	if identifier == "" {
		identifier = uuid.New().String()
	}

	autoDismiss := true
	if req.AutoDismiss != nil {
		autoDismiss = *req.AutoDismiss
	}

	notification := domain.NewNotification(&domain.NotificationRequest{
		Identifier: identifier,
		Content: &domain.NotificationContent{
			Title:       req.Title,
			Subtitle:    req.Subtitle,
			Text:        req.Text,
			Sound:       req.Sound,
			Priority:    req.Priority,
			Vibrate:     req.Vibrate,
			AutoDismiss: autoDismiss,
			Sticky:      req.Sticky,
			Badge:       req.Badge,
			Body:        req.Body,
		},
		CategoryID: req.CategoryID,
	})

	behavior := domain.DefaultBehavior()
	if req.Behavior != nil {
		if req.Behavior.ShouldPresent != nil {
			behavior.ShouldPresent = *req.Behavior.ShouldPresent
		}
		if req.Behavior.ShouldPlaySound != nil {
			behavior.ShouldPlaySound = *req.Behavior.ShouldPlaySound
		}
		behavior.PriorityOverride = req.Behavior.Priority
	}

	if err := h.presenter.Present(r.Context(), notification, behavior); err != nil {
		HandleError(w, err)
		return
	}

	h.metrics.RecordPresented()
	JSON(w, http.StatusCreated, notification)
}

// ListPresented lists the currently displayed notifications
// @Summary List presented notifications
// @Description Enumerate the notifications currently displayed in the host tray
// @Tags notifications
// @Produce json
// @Success 200 {object} Response{data=[]domain.Notification}
// @Failure 500 {object} Response
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) ListPresented(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.presenter.ListPresented(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}

	h.metrics.SetTrayActive(len(notifications))
	JSON(w, http.StatusOK, notifications)
}

// DismissRequest represents a request to dismiss notifications
type DismissRequest struct {
	Identifiers []string `json:"identifiers" validate:"required,min=1,dive,required"`
}

// Dismiss dismisses notifications by identifier
// @Summary Dismiss notifications
// @Description Dismiss the given notification identifiers from the host tray
// @Tags notifications
// @Accept json
// @Produce json
// @Param identifiers body DismissRequest true "Identifiers to dismiss"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 503 {object} Response
// @Router /api/v1/notifications/dismiss [post]
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	var req DismissRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleError(w, err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	if err := h.presenter.Dismiss(r.Context(), req.Identifiers...); err != nil {
		HandleError(w, err)
		return
	}

	h.metrics.RecordDismissed(len(req.Identifiers))
	JSON(w, http.StatusOK, map[string]int{"dismissed": len(req.Identifiers)})
}

// DismissAll dismisses every notification in the host tray
// @Summary Dismiss all notifications
// @Description Remove every notification from the host tray
// @Tags notifications
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /api/v1/notifications [delete]
func (h *NotificationHandler) DismissAll(w http.ResponseWriter, r *http.Request) {
	if err := h.presenter.DismissAll(r.Context()); err != nil {
		HandleError(w, err)
		return
	}

	h.metrics.RecordDismissedAll()
	JSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

// History lists recent presentation history
// @Summary Presentation history
// @Description List recently presented notifications, newest first
// @Tags notifications
// @Produce json
// @Param limit query int false "Maximum entries to return"
// @Success 200 {object} Response{data=[]domain.HistoryEntry}
// @Failure 500 {object} Response
// @Router /api/v1/notifications/history [get]
func (h *NotificationHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := h.history.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			JSONError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}
	if limit > h.history.MaxLimit {
		limit = h.history.MaxLimit
	}

	entries, err := h.presenter.History(r.Context(), limit)
	if err != nil {
		HandleError(w, err)
		return
	}

	JSON(w, http.StatusOK, entries)
}
