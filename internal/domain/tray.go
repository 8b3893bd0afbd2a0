package domain

import (
	"context"
	"time"
)

// Flag bits carried on tray records, matching the host's notification flag
// scale.
const (
	FlagOngoing     = 1 << 1
	FlagAutoDismiss = 1 << 4
)

// TrayAction is an action button attached to a presented record.
type TrayAction struct {
	Key   string
	Title string
}

// TrayRecord is the loosely-typed view of a single host tray entry. Tag is
// empty for untagged entries.
type TrayRecord struct {
	Tag      string
	ID       int32
	PostTime time.Time
	Title    string
	Subtitle string
	Text     string
	Priority int
	Vibrate  []int64
	Sound    string
	Flags    int
	Actions  []TrayAction
	Extras   map[string]any
}

// AutoDismiss reports whether the record clears itself once activated.
func (r TrayRecord) AutoDismiss() bool {
	return r.Flags&FlagAutoDismiss != 0
}

// Sticky reports whether the record resists user dismissal.
func (r TrayRecord) Sticky() bool {
	return r.Flags&FlagOngoing != 0
}

// Tray abstracts the host operating system's notification surface. The tray
// is the system of record; implementations hold no authority over entries
// other processes create.
type Tray interface {
	// Present displays record under the (tag, id) pair, replacing any entry
	// already shown under the same pair.
	Present(ctx context.Context, tag string, id int32, record TrayRecord) error

	// Active enumerates the currently displayed entries. Backends without
	// enumeration support return ErrTrayUnsupported.
	Active(ctx context.Context) ([]TrayRecord, error)

	// Cancel removes the entry displayed under (tag, id), if any.
	Cancel(ctx context.Context, tag string, id int32) error

	// CancelAll removes every entry this tray can reach.
	CancelAll(ctx context.Context) error
}
