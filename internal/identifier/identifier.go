// Package identifier encodes and decodes the string identifiers handed out
// for foreign tray entries. A (tag, id) pair used by the host tray is folded
// into a single URI-shaped string so it survives a round trip through the
// application layer's one identifier field.
package identifier

import (
	"log/slog"
	"net/url"
	"strconv"
	"strings"
)

// The wire format is stable; existing clients hold identifiers in this shape.
const (
	scheme    = "expo-notifications"
	authority = "foreign_notifications"
)

// Foreign is the structured identity of a tray entry this application did
// not issue. Tag is nil for untagged entries.
type Foreign struct {
	Tag *string
	ID  int32
}

// Encode folds the pair into a single identifier string. The tag parameter
// is omitted entirely when Tag is nil.
func Encode(f Foreign) string {
	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(authority)
	b.WriteByte('?')
	if f.Tag != nil {
		b.WriteString("tag=")
		b.WriteString(url.QueryEscape(*f.Tag))
		b.WriteByte('&')
	}
	b.WriteString("id=")
	b.WriteString(strconv.FormatInt(int64(f.ID), 10))
	return b.String()
}

// Decode parses an identifier back into its (tag, id) pair. It returns nil
// for any string that is not ours: unparsable URIs, a different scheme or
// authority, a missing id parameter, or a non-integer id. Rejections are
// logged and swallowed; Decode never fails.
func Decode(s string, logger *slog.Logger) *Foreign {
	u, err := url.Parse(s)
	if err != nil {
		debugf(logger, "identifier is not a URI", "identifier", s, "error", err)
		return nil
	}

	if u.Scheme != scheme || u.Host != authority {
		debugf(logger, "identifier is not a foreign notification URI", "identifier", s)
		return nil
	}

	query, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		debugf(logger, "identifier query is malformed", "identifier", s, "error", err)
		return nil
	}

	rawID := query.Get("id")
	if rawID == "" {
		debugf(logger, "identifier is missing the id parameter", "identifier", s)
		return nil
	}

	id, err := strconv.ParseInt(rawID, 10, 32)
	if err != nil {
		debugf(logger, "identifier id is not an integer", "identifier", s, "error", err)
		return nil
	}

	f := &Foreign{ID: int32(id)}
	if query.Has("tag") {
		tag := query.Get("tag")
		f.Tag = &tag
	}
	return f
}

func debugf(logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.Debug(msg, args...)
	}
}
