package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/relay-one/tray-service/internal/domain"
	"github.com/relay-one/tray-service/internal/identifier"
	"github.com/relay-one/tray-service/internal/payload"
)

// presentedSlot is the fixed numeric slot every self-issued notification
// shares; the request identifier doubles as the tray tag, so the pair stays
// unique per request.
const presentedSlot int32 = 0

// TrayEvent describes a change to the tray, pushed to live subscribers.
type TrayEvent struct {
	Type         string               `json:"type"` // presented | dismissed | dismissed_all
	Identifier   string               `json:"identifier,omitempty"`
	Notification *domain.Notification `json:"notification,omitempty"`
	Timestamp    time.Time            `json:"timestamp"`
}

// Presenter mediates between the application notification model and the
// host tray.
type Presenter struct {
	tray           domain.Tray
	reconstructor  *Reconstructor
	codec          payload.Codec
	categories     domain.CategoryRepository
	history        domain.HistoryRepository
	logger         *slog.Logger
	eventBroadcast func(event *TrayEvent)
}

// NewPresenter creates a new Presenter
func NewPresenter(
	tray domain.Tray,
	reconstructor *Reconstructor,
	codec payload.Codec,
	categories domain.CategoryRepository,
	history domain.HistoryRepository,
	logger *slog.Logger,
) *Presenter {
	return &Presenter{
		tray:          tray,
		reconstructor: reconstructor,
		codec:         codec,
		categories:    categories,
		history:       history,
		logger:        logger,
	}
}

// SetEventBroadcast sets the function used to push tray events to
// subscribers.
func (s *Presenter) SetEventBroadcast(fn func(event *TrayEvent)) {
	s.eventBroadcast = fn
}

// Present displays the notification in the host tray under the fixed slot
// combined with a tag derived from the request identifier.
func (s *Presenter) Present(ctx context.Context, notification *domain.Notification, behavior *domain.Behavior) error {
	if notification == nil || notification.Request == nil {
		return domain.NewValidationError("notification", "notification request is required")
	}
	if notification.Request.Content == nil {
		return domain.NewValidationError("content", "notification content is required")
	}

	if behavior == nil {
		behavior = domain.DefaultBehavior()
	}
	if !behavior.ShouldPresent {
		s.logger.Debug("behavior suppressed presentation",
			"identifier", notification.Request.Identifier,
		)
		return nil
	}

	if notification.Date.IsZero() {
		notification.Date = time.Now().UTC()
	}

	tag := notification.Request.Identifier
	record, err := s.buildRecord(ctx, notification, behavior)
	if err != nil {
		return err
	}

	if err := s.tray.Present(ctx, tag, presentedSlot, record); err != nil {
		return fmt.Errorf("failed to present notification: %w", err)
	}

	s.recordHistory(ctx, notification)
	s.broadcast(&TrayEvent{
		Type:         "presented",
		Identifier:   notification.Request.Identifier,
		Notification: notification,
		Timestamp:    time.Now().UTC(),
	})

	s.logger.Info("notification presented",
		"identifier", notification.Request.Identifier,
		"title", notification.Request.Content.Title,
	)
	return nil
}

// ListPresented enumerates the currently displayed tray entries and
// reconstructs each one. Records that fail reconstruction are dropped from
// the result; a backend without enumeration yields an empty list.
func (s *Presenter) ListPresented(ctx context.Context) ([]*domain.Notification, error) {
	records, err := s.tray.Active(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrTrayUnsupported) {
			return []*domain.Notification{}, nil
		}
		return nil, fmt.Errorf("failed to enumerate tray: %w", err)
	}

	notifications := make([]*domain.Notification, 0, len(records))
	for _, record := range records {
		if n := s.reconstructor.FromRecord(record); n != nil {
			notifications = append(notifications, n)
		}
	}
	return notifications, nil
}

// Dismiss removes the given identifiers from the tray. An identifier that
// decodes as a foreign identifier is cancelled under its original (tag, id)
// pair; anything else is assumed to be a tag this application issued itself
// and is cancelled under the fixed slot.
//
// Known limitation: the fallback is a heuristic, not a verified match. A
// foreign system that happens to produce a string in the internal URI shape
// will be misrouted to the foreign branch.
func (s *Presenter) Dismiss(ctx context.Context, identifiers ...string) error {
	var errs []error
	now := time.Now().UTC()

	for _, id := range identifiers {
		var err error
		if foreign := identifier.Decode(id, s.logger); foreign != nil {
			tag := ""
			if foreign.Tag != nil {
				tag = *foreign.Tag
			}
			err = s.tray.Cancel(ctx, tag, foreign.ID)
		} else {
			err = s.tray.Cancel(ctx, id, presentedSlot)
		}

		if err != nil {
			errs = append(errs, fmt.Errorf("failed to dismiss %q: %w", id, err))
			continue
		}

		if s.history != nil {
			if herr := s.history.MarkDismissed(ctx, id, now); herr != nil {
				s.logger.Warn("failed to record dismissal", "identifier", id, "error", herr)
			}
		}
		s.broadcast(&TrayEvent{Type: "dismissed", Identifier: id, Timestamp: now})
	}

	return errors.Join(errs...)
}

// DismissAll removes every entry in the host tray. Process-wide and
// irreversible.
func (s *Presenter) DismissAll(ctx context.Context) error {
	if err := s.tray.CancelAll(ctx); err != nil {
		return fmt.Errorf("failed to dismiss all notifications: %w", err)
	}

	now := time.Now().UTC()
	if s.history != nil {
		if err := s.history.MarkAllDismissed(ctx, now); err != nil {
			s.logger.Warn("failed to record bulk dismissal", "error", err)
		}
	}
	s.broadcast(&TrayEvent{Type: "dismissed_all", Timestamp: now})

	s.logger.Info("dismissed all notifications")
	return nil
}

// History returns the most recent presentation history entries.
func (s *Presenter) History(ctx context.Context, limit int) ([]*domain.HistoryEntry, error) {
	if s.history == nil {
		return []*domain.HistoryEntry{}, nil
	}
	return s.history.List(ctx, limit)
}

// buildRecord turns a request into the native record handed to the tray,
// applying behavior overrides and category actions.
func (s *Presenter) buildRecord(ctx context.Context, notification *domain.Notification, behavior *domain.Behavior) (domain.TrayRecord, error) {
	req := notification.Request
	content := req.Content

	priority := content.Priority
	if !priority.IsValid() {
		priority = domain.PriorityDefault
	}
	if behavior.PriorityOverride.IsValid() {
		priority = behavior.PriorityOverride
	}

	sound := content.Sound
	if !behavior.ShouldPlaySound {
		sound = ""
	}

	var flags int
	if content.AutoDismiss {
		flags |= domain.FlagAutoDismiss
	}
	if content.Sticky {
		flags |= domain.FlagOngoing
	}

	data, err := s.codec.Marshal(req)
	if err != nil {
		return domain.TrayRecord{}, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	record := domain.TrayRecord{
		Tag:      req.Identifier,
		ID:       presentedSlot,
		PostTime: notification.Date,
		Title:    content.Title,
		Subtitle: content.Subtitle,
		Text:     content.Text,
		Priority: priority.Level(),
		Vibrate:  content.Vibrate,
		Sound:    sound,
		Flags:    flags,
		Extras:   map[string]any{payload.ExtrasKey: data},
	}

	if req.CategoryID != "" && s.categories != nil {
		category, err := s.categories.GetByIdentifier(ctx, req.CategoryID)
		switch {
		case err == nil:
			for _, action := range category.Actions {
				record.Actions = append(record.Actions, domain.TrayAction{
					Key:   action.Identifier,
					Title: action.Title,
				})
			}
		case errors.Is(err, domain.ErrNotFound):
			s.logger.Warn("notification references unknown category",
				"identifier", req.Identifier,
				"category", req.CategoryID,
			)
		default:
			return domain.TrayRecord{}, fmt.Errorf("failed to load category: %w", err)
		}
	}

	return record, nil
}

func (s *Presenter) recordHistory(ctx context.Context, notification *domain.Notification) {
	if s.history == nil {
		return
	}

	entry := &domain.HistoryEntry{
		ID:          uuid.New().String(),
		Identifier:  notification.Request.Identifier,
		Tag:         notification.Request.Identifier,
		Title:       notification.Request.Content.Title,
		PresentedAt: notification.Date,
	}
	if err := s.history.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record presentation history",
			"identifier", notification.Request.Identifier,
			"error", err,
		)
	}
}

func (s *Presenter) broadcast(event *TrayEvent) {
	if s.eventBroadcast != nil {
		s.eventBroadcast(event)
	}
}
