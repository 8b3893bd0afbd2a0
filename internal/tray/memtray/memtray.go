// Package memtray is an in-memory domain.Tray for tests and environments
// without a session bus. Unlike the D-Bus backend it supports full
// enumeration, including foreign records injected with Seed.
package memtray

import (
	"context"
	"sort"
	"sync"

	"github.com/relay-one/tray-service/internal/domain"
)

type slotKey struct {
	tag string
	id  int32
}

// Tray stores presented records in a mutex-guarded map.
type Tray struct {
	mu     sync.RWMutex
	active map[slotKey]domain.TrayRecord
}

func New() *Tray {
	return &Tray{
		active: make(map[slotKey]domain.TrayRecord),
	}
}

func (t *Tray) Present(ctx context.Context, tag string, id int32, record domain.TrayRecord) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.active[slotKey{tag: tag, id: id}] = record
	return nil
}

func (t *Tray) Active(ctx context.Context) ([]domain.TrayRecord, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	records := make([]domain.TrayRecord, 0, len(t.active))
	for _, r := range t.active {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].PostTime.Before(records[j].PostTime)
	})
	return records, nil
}

func (t *Tray) Cancel(ctx context.Context, tag string, id int32) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.active, slotKey{tag: tag, id: id})
	return nil
}

func (t *Tray) CancelAll(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.active = make(map[slotKey]domain.TrayRecord)
	return nil
}

// Health always succeeds; the tray has no external dependency.
func (t *Tray) Health(ctx context.Context) error {
	return nil
}

// Seed inserts a record as if another process had posted it, keyed by the
// record's own tag and id.
func (t *Tray) Seed(record domain.TrayRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.active[slotKey{tag: record.Tag, id: record.ID}] = record
}

// Len reports the number of displayed entries.
func (t *Tray) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.active)
}
