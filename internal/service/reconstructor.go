package service

import (
	"log/slog"

	"github.com/relay-one/tray-service/internal/domain"
	"github.com/relay-one/tray-service/internal/identifier"
	"github.com/relay-one/tray-service/internal/payload"
)

// Reconstructor rebuilds structured notifications from opaque tray records,
// including foreign records this application never created.
type Reconstructor struct {
	codec  payload.Codec
	logger *slog.Logger
}

// NewReconstructor creates a new Reconstructor
func NewReconstructor(codec payload.Codec, logger *slog.Logger) *Reconstructor {
	return &Reconstructor{
		codec:  codec,
		logger: logger,
	}
}

// FromRecord produces a best-effort Notification for a single tray record.
//
// A record carrying an embedded request payload is decoded through the
// payload codec; if that payload turns out corrupt the record is
// unrecoverable and nil is returned, so batch callers can drop it without
// aborting. A record with no payload at all is a foreign notification and a
// request is synthesized from the generic fields the tray exposes.
func (r *Reconstructor) FromRecord(record domain.TrayRecord) *domain.Notification {
	if data, ok := payload.FromExtras(record.Extras); ok {
		req, err := r.codec.Unmarshal(data)
		if err != nil {
			r.logger.Warn("dropping tray record with corrupt embedded request",
				"tag", record.Tag,
				"id", record.ID,
				"error", err,
			)
			return nil
		}
		return &domain.Notification{Request: req, Date: record.PostTime}
	}

	return &domain.Notification{
		Request: r.synthesize(record),
		Date:    record.PostTime,
	}
}

// synthesize builds a request out of the fields any tray record has. The
// identifier encodes the record's own (tag, id) pair and the trigger is
// always absent: foreign records carry no scheduling metadata.
func (r *Reconstructor) synthesize(record domain.TrayRecord) *domain.NotificationRequest {
	var tag *string
	if record.Tag != "" {
		tag = &record.Tag
	}

	content := &domain.NotificationContent{
		Title:       record.Title,
		Subtitle:    record.Subtitle,
		Text:        record.Text,
		Sound:       record.Sound,
		Priority:    domain.PriorityFromLevel(record.Priority),
		Vibrate:     record.Vibrate,
		AutoDismiss: record.AutoDismiss(),
		Sticky:      record.Sticky(),
		Body:        domain.ValuesOf(record.Extras, r.logger),
	}

	return &domain.NotificationRequest{
		Identifier: identifier.Encode(identifier.Foreign{Tag: tag, ID: record.ID}),
		Content:    content,
	}
}
