package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/wrangleapp/wrangle/internal/logging"
	"github.com/wrangleapp/wrangle/internal/model"
)

type Permission string

const (
	PermissionUnknown Permission = "unknown"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// notificationIDPrefix makes the item -> notification mapping deterministic
// and collision-free, so a reminder scheduled before a restart can always be
// found and replaced or cancelled.
const notificationIDPrefix = "wrangle-item-"

func NotificationID(itemID string) string {
	return notificationIDPrefix + itemID
}

// Notifier maps planner items to at most one pending notification each.
// Permission is a lazily-cached state probed on first use; denial degrades
// every scheduling call to a silent no-op.
type Notifier struct {
	mu         sync.Mutex
	permission Permission
	probe      func() bool
	engine     *Engine
	log        *logging.Logger
}

func NewNotifier(engine *Engine, probe func() bool, log *logging.Logger) *Notifier {
	if probe == nil {
		probe = func() bool { return true }
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Notifier{
		permission: PermissionUnknown,
		probe:      probe,
		engine:     engine,
		log:        log.Named("notify"),
	}
}

func (n *Notifier) PermissionStatus() Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.permission
}

// RequestPermission probes whether notifications can be delivered and caches
// the outcome. A denied state is re-probed on the next scheduling attempt.
func (n *Notifier) RequestPermission() bool {
	granted := n.probe()
	n.mu.Lock()
	if granted {
		n.permission = PermissionGranted
	} else {
		n.permission = PermissionDenied
	}
	n.mu.Unlock()
	return granted
}

func (n *Notifier) ensurePermission() bool {
	n.mu.Lock()
	granted := n.permission == PermissionGranted
	n.mu.Unlock()
	if granted {
		return true
	}
	return n.RequestPermission()
}

// ScheduleForItem applies the item's reminder preference: cancel any pending
// notification for the item, then schedule a fresh one at start minus the
// reminder offset, truncated to the minute. Items without a reminder, past
// trigger times, and permission denial all leave no pending entry.
func (n *Notifier) ScheduleForItem(item model.Item, now time.Time) {
	if !item.WantsReminder() {
		return
	}
	if !n.ensurePermission() {
		return
	}

	id := NotificationID(item.ID)
	n.engine.Cancel(id)

	minutes := *item.ReminderMinutesBefore
	fireAt := item.StartTime.Add(-time.Duration(minutes) * time.Minute).Truncate(time.Minute)
	if !fireAt.After(now) {
		return
	}

	err := n.engine.Schedule(Notification{
		ID:     id,
		Title:  "Upcoming: " + item.Title,
		Body:   fmt.Sprintf("Starts in %d minutes", minutes),
		FireAt: fireAt,
	})
	if err != nil {
		n.log.Warnw("schedule notification failed", "item", item.ID, "err", err)
	}
}

// CancelForItem removes the pending notification for the item, if any.
func (n *Notifier) CancelForItem(itemID string) {
	n.engine.Cancel(NotificationID(itemID))
}

func (n *Notifier) CancelAll() {
	n.engine.CancelAll()
}

func (n *Notifier) Pending() []Notification {
	return n.engine.Pending()
}
