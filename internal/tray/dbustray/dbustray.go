// Package dbustray presents notifications through the session's freedesktop
// notification daemon (org.freedesktop.Notifications).
//
// The wire protocol has no server-side enumeration, so the tray keeps its
// own ledger of the entries it posted and prunes it on NotificationClosed
// signals. Entries posted by other bus clients are invisible to Active.
package dbustray

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/relay-one/tray-service/internal/domain"
	"github.com/relay-one/tray-service/internal/payload"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = "/org/freedesktop/Notifications"

	methodNotify   = busName + ".Notify"
	methodClose    = busName + ".CloseNotification"
	methodCaps     = busName + ".GetCapabilities"
	signalClosed   = busName + ".NotificationClosed"
	methodPeerPing = "org.freedesktop.DBus.Peer.Ping"
)

// Options configures the identity the daemon displays for this client.
type Options struct {
	AppName string
	AppIcon string
}

type slotKey struct {
	tag string
	id  int32
}

type entry struct {
	hostID uint32
	record domain.TrayRecord
}

// Tray implements domain.Tray against the session notification daemon.
type Tray struct {
	conn   *dbus.Conn
	obj    dbus.BusObject
	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	active   map[slotKey]entry
	byHostID map[uint32]slotKey
}

// New connects to the session bus and starts watching close signals.
func New(opts Options, logger *slog.Logger) (*Tray, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("dbustray: connecting session bus: %w", err)
	}

	t := &Tray{
		conn:     conn,
		obj:      conn.Object(busName, dbus.ObjectPath(objectPath)),
		opts:     opts,
		logger:   logger,
		active:   make(map[slotKey]entry),
		byHostID: make(map[uint32]slotKey),
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(dbus.ObjectPath(objectPath)),
		dbus.WithMatchInterface(busName),
		dbus.WithMatchMember("NotificationClosed"),
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("dbustray: subscribing to close signals: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)
	go t.watchClosed(signals)

	var caps []string
	if call := t.obj.Call(methodCaps, 0); call.Err == nil {
		_ = call.Store(&caps)
	}
	logger.Debug("connected to notification daemon", "capabilities", caps)

	return t, nil
}

// Present maps (tag, id) onto the daemon's uint32 handle, replacing any
// entry already posted under the same pair.
func (t *Tray) Present(ctx context.Context, tag string, id int32, record domain.TrayRecord) error {
	key := slotKey{tag: tag, id: id}

	t.mu.Lock()
	var replacesID uint32
	if existing, ok := t.active[key]; ok {
		replacesID = existing.hostID
	}
	t.mu.Unlock()

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(domain.PriorityFromLevel(record.Priority).Urgency()),
	}
	if record.Sound == "" {
		hints["suppress-sound"] = dbus.MakeVariant(true)
	} else if record.Sound != "default" {
		hints["sound-name"] = dbus.MakeVariant(record.Sound)
	}
	if data, ok := payload.FromExtras(record.Extras); ok && data != nil {
		hints["x-notification-request"] = dbus.MakeVariant(data)
	}

	actions := make([]string, 0, len(record.Actions)*2)
	for _, a := range record.Actions {
		actions = append(actions, a.Key, a.Title)
	}

	// Sticky entries never expire; everything else uses the daemon default.
	expire := int32(-1)
	if record.Sticky() {
		expire = 0
	}

	call := t.obj.CallWithContext(ctx, methodNotify, 0,
		t.opts.AppName,
		replacesID,
		t.opts.AppIcon,
		record.Title,
		record.Text,
		actions,
		hints,
		expire,
	)
	if call.Err != nil {
		return fmt.Errorf("dbustray: %w: %s", domain.ErrTrayUnavailable, call.Err)
	}

	var hostID uint32
	if err := call.Store(&hostID); err != nil {
		return fmt.Errorf("dbustray: reading notify reply: %w", err)
	}

	t.mu.Lock()
	if replacesID != 0 {
		delete(t.byHostID, replacesID)
	}
	t.active[key] = entry{hostID: hostID, record: record}
	t.byHostID[hostID] = key
	t.mu.Unlock()

	t.logger.Debug("presented tray entry", "tag", tag, "id", id, "host_id", hostID)
	return nil
}

// Active returns the ledger of entries this process posted that the daemon
// has not reported closed.
func (t *Tray) Active(ctx context.Context) ([]domain.TrayRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	records := make([]domain.TrayRecord, 0, len(t.active))
	for _, e := range t.active {
		records = append(records, e.record)
	}
	return records, nil
}

// Cancel closes the entry posted under (tag, id). Unknown pairs are a no-op,
// matching the host semantics of cancelling an absent notification.
func (t *Tray) Cancel(ctx context.Context, tag string, id int32) error {
	key := slotKey{tag: tag, id: id}

	t.mu.Lock()
	e, ok := t.active[key]
	if ok {
		delete(t.active, key)
		delete(t.byHostID, e.hostID)
	}
	t.mu.Unlock()

	if !ok {
		return nil
	}

	if call := t.obj.CallWithContext(ctx, methodClose, 0, e.hostID); call.Err != nil {
		return fmt.Errorf("dbustray: %w: %s", domain.ErrTrayUnavailable, call.Err)
	}
	return nil
}

// CancelAll closes every entry in the ledger.
func (t *Tray) CancelAll(ctx context.Context) error {
	t.mu.Lock()
	ids := make([]uint32, 0, len(t.active))
	for _, e := range t.active {
		ids = append(ids, e.hostID)
	}
	t.active = make(map[slotKey]entry)
	t.byHostID = make(map[uint32]slotKey)
	t.mu.Unlock()

	for _, hostID := range ids {
		if call := t.obj.CallWithContext(ctx, methodClose, 0, hostID); call.Err != nil {
			return fmt.Errorf("dbustray: %w: %s", domain.ErrTrayUnavailable, call.Err)
		}
	}
	return nil
}

// Health pings the daemon so the gateway's readiness probe can see it.
func (t *Tray) Health(ctx context.Context) error {
	if call := t.obj.CallWithContext(ctx, methodPeerPing, 0); call.Err != nil {
		return fmt.Errorf("dbustray: %w: %s", domain.ErrTrayUnavailable, call.Err)
	}
	return nil
}

// Close releases the bus connection.
func (t *Tray) Close() error {
	return t.conn.Close()
}

func (t *Tray) watchClosed(signals chan *dbus.Signal) {
	for sig := range signals {
		if sig.Name != signalClosed || len(sig.Body) == 0 {
			continue
		}
		hostID, ok := sig.Body[0].(uint32)
		if !ok {
			continue
		}

		t.mu.Lock()
		key, tracked := t.byHostID[hostID]
		if tracked {
			delete(t.byHostID, hostID)
			delete(t.active, key)
		}
		t.mu.Unlock()

		if tracked {
			t.logger.Debug("tray entry closed by daemon", "tag", key.tag, "id", key.id, "host_id", hostID)
		}
	}
}
