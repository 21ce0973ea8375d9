package notify

import (
	"testing"
	"time"

	"github.com/wrangleapp/wrangle/internal/model"
)

func reminderItem(id string, start time.Time, minutes int) model.Item {
	return model.Item{
		ID:                    id,
		Title:                 "Design sync",
		StartTime:             start,
		EndTime:               start.Add(time.Hour),
		Priority:              model.PriorityMedium,
		ReminderMinutesBefore: &minutes,
		CreatedAt:             start.Add(-48 * time.Hour),
		UpdatedAt:             start.Add(-48 * time.Hour),
	}
}

func TestScheduleForItemComputesFireTime(t *testing.T) {
	engine := NewEngine(4)
	notifier := NewNotifier(engine, nil, nil)

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	notifier.ScheduleForItem(reminderItem("item-a", start, 15), now)

	pending := notifier.Pending()
	if len(pending) != 1 {
		t.Fatalf("expected exactly one pending notification, got %d", len(pending))
	}
	want := time.Date(2026, 3, 2, 13, 45, 0, 0, time.UTC)
	if !pending[0].FireAt.Equal(want) {
		t.Fatalf("expected fire at 13:45, got %s", pending[0].FireAt)
	}
	if pending[0].ID != "wrangle-item-item-a" {
		t.Fatalf("unexpected notification id: %q", pending[0].ID)
	}
	if pending[0].Title != "Upcoming: Design sync" || pending[0].Body != "Starts in 15 minutes" {
		t.Fatalf("unexpected content: %#v", pending[0])
	}
}

func TestScheduleForItemTruncatesToMinute(t *testing.T) {
	engine := NewEngine(4)
	notifier := NewNotifier(engine, nil, nil)

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 2, 14, 0, 42, 500, time.UTC)
	notifier.ScheduleForItem(reminderItem("item-a", start, 10), now)

	pending := notifier.Pending()
	if len(pending) != 1 {
		t.Fatalf("expected one pending notification, got %d", len(pending))
	}
	if got := pending[0].FireAt; got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("fire time not truncated to minute: %s", got)
	}
}

func TestScheduleForItemSkipsPastTrigger(t *testing.T) {
	engine := NewEngine(4)
	notifier := NewNotifier(engine, nil, nil)

	// Start 08:00 with a 15 minute offset at 09:00 current time: trigger is
	// already past, so nothing may be scheduled.
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	notifier.ScheduleForItem(reminderItem("item-b", start, 15), now)

	if pending := notifier.Pending(); len(pending) != 0 {
		t.Fatalf("expected no pending notifications, got %#v", pending)
	}
}

func TestScheduleForItemZeroOffsetFiresAtStart(t *testing.T) {
	engine := NewEngine(4)
	notifier := NewNotifier(engine, nil, nil)

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	notifier.ScheduleForItem(reminderItem("item-c", start, 0), now)

	pending := notifier.Pending()
	if len(pending) != 1 {
		t.Fatalf("expected one pending notification, got %d", len(pending))
	}
	if !pending[0].FireAt.Equal(start) {
		t.Fatalf("expected fire at start time, got %s", pending[0].FireAt)
	}
}

func TestScheduleForItemWithoutReminderIsNoop(t *testing.T) {
	engine := NewEngine(4)
	notifier := NewNotifier(engine, nil, nil)

	item := reminderItem("item-d", time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), 15)
	item.ReminderMinutesBefore = nil
	notifier.ScheduleForItem(item, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	if pending := notifier.Pending(); len(pending) != 0 {
		t.Fatalf("expected no pending notifications, got %#v", pending)
	}
}

func TestScheduleForItemReplacesNotDuplicates(t *testing.T) {
	engine := NewEngine(4)
	notifier := NewNotifier(engine, nil, nil)

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	item := reminderItem("item-a", time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), 15)
	notifier.ScheduleForItem(item, now)
	notifier.ScheduleForItem(item, now)

	if pending := notifier.Pending(); len(pending) != 1 {
		t.Fatalf("double schedule must yield one entry, got %d", len(pending))
	}

	// Moving the start retargets the single pending notification.
	item.StartTime = time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)
	notifier.ScheduleForItem(item, now)
	pending := notifier.Pending()
	if len(pending) != 1 {
		t.Fatalf("expected one pending entry after edit, got %d", len(pending))
	}
	want := time.Date(2026, 3, 2, 15, 45, 0, 0, time.UTC)
	if !pending[0].FireAt.Equal(want) {
		t.Fatalf("expected retargeted fire time 15:45, got %s", pending[0].FireAt)
	}
}

func TestCancelForItem(t *testing.T) {
	engine := NewEngine(4)
	notifier := NewNotifier(engine, nil, nil)

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	notifier.ScheduleForItem(reminderItem("item-a", now.Add(5*time.Hour), 15), now)
	notifier.CancelForItem("item-a")
	if pending := notifier.Pending(); len(pending) != 0 {
		t.Fatalf("expected no pending after cancel, got %#v", pending)
	}

	// Cancelling an item with no pending notification is not an error.
	notifier.CancelForItem("item-never-scheduled")
}

func TestPermissionDenialDegradesToNoop(t *testing.T) {
	engine := NewEngine(4)
	granted := false
	notifier := NewNotifier(engine, func() bool { return granted }, nil)

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	notifier.ScheduleForItem(reminderItem("item-a", now.Add(5*time.Hour), 15), now)
	if pending := notifier.Pending(); len(pending) != 0 {
		t.Fatalf("denied permission must schedule nothing, got %#v", pending)
	}
	if notifier.PermissionStatus() != PermissionDenied {
		t.Fatalf("expected denied status, got %s", notifier.PermissionStatus())
	}

	// Denial self-heals: the next attempt re-probes.
	granted = true
	notifier.ScheduleForItem(reminderItem("item-a", now.Add(5*time.Hour), 15), now)
	if pending := notifier.Pending(); len(pending) != 1 {
		t.Fatalf("expected one pending after permission granted, got %d", len(pending))
	}
	if notifier.PermissionStatus() != PermissionGranted {
		t.Fatalf("expected granted status, got %s", notifier.PermissionStatus())
	}
}
