package planner

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/wrangleapp/wrangle/internal/model"
	"github.com/wrangleapp/wrangle/internal/storage"
)

type fakeBridge struct {
	createFails bool
	updateFails bool
	deleteFails bool

	created []model.Item
	updated []model.Item
	deleted []string
	nextID  int
}

func (b *fakeBridge) CreateEvent(_ context.Context, item model.Item) string {
	b.created = append(b.created, item)
	if b.createFails {
		return ""
	}
	b.nextID++
	return "evt-" + item.ID
}

func (b *fakeBridge) UpdateEvent(_ context.Context, item model.Item) bool {
	b.updated = append(b.updated, item)
	return !b.updateFails
}

func (b *fakeBridge) DeleteEvent(_ context.Context, eventID string) bool {
	b.deleted = append(b.deleted, eventID)
	return !b.deleteFails
}

type fakeNotifier struct {
	scheduled []model.Item
	cancelled []string
}

func (n *fakeNotifier) ScheduleForItem(item model.Item, _ time.Time) {
	n.scheduled = append(n.scheduled, item)
}

func (n *fakeNotifier) CancelForItem(itemID string) {
	n.cancelled = append(n.cancelled, itemID)
}

func setupCoordinator(t *testing.T) (*Coordinator, *fakeBridge, *fakeNotifier) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "wrangle-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	repo, err := storage.NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	bridge := &fakeBridge{}
	notifier := &fakeNotifier{}
	coord := NewCoordinator(repo, bridge, notifier, nil)
	coord.now = func() time.Time {
		return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	}
	// run side effects inline so tests observe them deterministically
	coord.dispatch = func(fn func()) { fn() }
	return coord, bridge, notifier
}

func draftAt(start time.Time) ItemDraft {
	minutes := 15
	return ItemDraft{
		Title:                 "Team sync",
		StartTime:             start,
		EndTime:               start.Add(time.Hour),
		Priority:              model.PriorityHigh,
		ReminderMinutesBefore: &minutes,
	}
}

func TestCreateItemPersistsAndLinks(t *testing.T) {
	coord, bridge, notifier := setupCoordinator(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	draft := draftAt(start)
	draft.SyncToCalendar = true
	item, err := coord.CreateItem(ctx, draft)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.ID == "" {
		t.Fatal("expected generated id")
	}

	stored, err := coord.Item(ctx, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if !stored.IsSynced() {
		t.Fatal("expected calendar link to be persisted")
	}
	if got, want := *stored.CalendarEventID, "evt-"+item.ID; got != want {
		t.Fatalf("event id = %q, want %q", got, want)
	}
	if len(bridge.created) != 1 {
		t.Fatalf("bridge create calls = %d, want 1", len(bridge.created))
	}
	if len(notifier.scheduled) != 1 {
		t.Fatalf("notifier schedule calls = %d, want 1", len(notifier.scheduled))
	}
}

func TestCreateItemSurvivesCalendarFailure(t *testing.T) {
	coord, bridge, _ := setupCoordinator(t)
	bridge.createFails = true
	ctx := context.Background()

	draft := draftAt(time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC))
	draft.SyncToCalendar = true
	item, err := coord.CreateItem(ctx, draft)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	stored, err := coord.Item(ctx, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if stored.IsSynced() {
		t.Fatal("item must stay unlinked when the calendar create fails")
	}
}

func TestCreateItemRejectsInvalidSpan(t *testing.T) {
	coord, _, _ := setupCoordinator(t)
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	draft := draftAt(start)
	draft.EndTime = start.Add(-time.Hour)
	if _, err := coord.CreateItem(context.Background(), draft); !errors.Is(err, model.ErrInvalidTimeSpan) {
		t.Fatalf("err = %v, want ErrInvalidTimeSpan", err)
	}
}

func TestUpdateItemPushesToLinkedEvent(t *testing.T) {
	coord, bridge, notifier := setupCoordinator(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	draft := draftAt(start)
	draft.SyncToCalendar = true
	item, err := coord.CreateItem(ctx, draft)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	item, err = coord.Item(ctx, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}

	item.Title = "Team sync (moved)"
	item.StartTime = start.Add(2 * time.Hour)
	item.EndTime = item.StartTime.Add(time.Hour)
	if _, err := coord.UpdateItem(ctx, item, true); err != nil {
		t.Fatalf("update item: %v", err)
	}

	if len(bridge.updated) != 1 {
		t.Fatalf("bridge update calls = %d, want 1", len(bridge.updated))
	}
	if len(bridge.created) != 1 {
		t.Fatalf("bridge create calls = %d, want 1 (no recreate on update)", len(bridge.created))
	}
	// each save re-derives the notification
	if len(notifier.cancelled) == 0 || len(notifier.scheduled) < 2 {
		t.Fatalf("expected cancel+reschedule, got cancels=%d schedules=%d",
			len(notifier.cancelled), len(notifier.scheduled))
	}
}

func TestUpdateItemEnablingSyncCreatesEvent(t *testing.T) {
	coord, bridge, _ := setupCoordinator(t)
	ctx := context.Background()

	item, err := coord.CreateItem(ctx, draftAt(time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if len(bridge.created) != 0 {
		t.Fatalf("bridge create calls = %d before sync enabled", len(bridge.created))
	}

	if _, err := coord.UpdateItem(ctx, item, true); err != nil {
		t.Fatalf("update item: %v", err)
	}
	stored, err := coord.Item(ctx, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if !stored.IsSynced() {
		t.Fatal("expected event link after enabling sync")
	}
}

func TestUpdateItemDisablingSyncRemovesEvent(t *testing.T) {
	coord, bridge, _ := setupCoordinator(t)
	ctx := context.Background()

	draft := draftAt(time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC))
	draft.SyncToCalendar = true
	item, err := coord.CreateItem(ctx, draft)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	item, err = coord.Item(ctx, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}

	if _, err := coord.UpdateItem(ctx, item, false); err != nil {
		t.Fatalf("update item: %v", err)
	}
	if len(bridge.deleted) != 1 {
		t.Fatalf("bridge delete calls = %d, want 1", len(bridge.deleted))
	}
	stored, err := coord.Item(ctx, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if stored.IsSynced() {
		t.Fatal("expected link cleared after disabling sync")
	}
}

func TestUpdateItemKeepsLinkWhenDeleteFails(t *testing.T) {
	coord, bridge, _ := setupCoordinator(t)
	ctx := context.Background()

	draft := draftAt(time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC))
	draft.SyncToCalendar = true
	item, err := coord.CreateItem(ctx, draft)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	item, err = coord.Item(ctx, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}

	bridge.deleteFails = true
	if _, err := coord.UpdateItem(ctx, item, false); err != nil {
		t.Fatalf("update item: %v", err)
	}
	stored, err := coord.Item(ctx, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if !stored.IsSynced() {
		t.Fatal("link must be kept when the calendar delete fails")
	}
}

func TestToggleCompleteIsLocalOnly(t *testing.T) {
	coord, bridge, notifier := setupCoordinator(t)
	ctx := context.Background()

	draft := draftAt(time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC))
	draft.SyncToCalendar = true
	item, err := coord.CreateItem(ctx, draft)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	bridgeCreates := len(bridge.created)
	schedules := len(notifier.scheduled)

	toggled, err := coord.ToggleComplete(ctx, item.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.IsCompleted {
		t.Fatal("expected item completed")
	}
	if len(bridge.created) != bridgeCreates || len(bridge.updated) != 0 {
		t.Fatal("toggle must not touch the calendar")
	}
	if len(notifier.scheduled) != schedules || len(notifier.cancelled) != 0 {
		t.Fatal("toggle must not touch the notifier")
	}

	back, err := coord.ToggleComplete(ctx, item.ID)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if back.IsCompleted {
		t.Fatal("expected item reopened")
	}
}

func TestDeleteItemCascades(t *testing.T) {
	coord, bridge, notifier := setupCoordinator(t)
	ctx := context.Background()

	draft := draftAt(time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC))
	draft.SyncToCalendar = true
	item, err := coord.CreateItem(ctx, draft)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	if err := coord.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if len(bridge.deleted) != 1 {
		t.Fatalf("bridge delete calls = %d, want 1", len(bridge.deleted))
	}
	if len(notifier.cancelled) == 0 {
		t.Fatal("expected reminder cancel on delete")
	}
	if _, err := coord.Item(ctx, item.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteItemAuthoritativeWhenSideCallsFail(t *testing.T) {
	coord, bridge, _ := setupCoordinator(t)
	ctx := context.Background()

	draft := draftAt(time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC))
	draft.SyncToCalendar = true
	item, err := coord.CreateItem(ctx, draft)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	bridge.deleteFails = true
	if err := coord.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if _, err := coord.Item(ctx, item.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("record must be removed even when side calls fail, got %v", err)
	}
}

func TestItemsForDayBounds(t *testing.T) {
	coord, _, _ := setupCoordinator(t)
	ctx := context.Background()

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	times := []time.Time{
		day.Add(9 * time.Hour),
		day.Add(23*time.Hour + 59*time.Minute),
		day.AddDate(0, 0, 1), // next day, excluded
	}
	for _, start := range times {
		if _, err := coord.CreateItem(ctx, draftAt(start)); err != nil {
			t.Fatalf("create item: %v", err)
		}
	}

	items, err := coord.ItemsForDay(ctx, day.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("items for day: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if !items[0].StartTime.Before(items[1].StartTime) {
		t.Fatal("expected items ordered by start time")
	}
}

func TestSeedTimeBlocksOnlyOnce(t *testing.T) {
	coord, _, _ := setupCoordinator(t)
	ctx := context.Background()

	if err := coord.SeedTimeBlocks(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	blocks, err := coord.ActiveTimeBlocks(ctx)
	if err != nil {
		t.Fatalf("list blocks: %v", err)
	}
	if len(blocks) != len(model.DefaultTimeBlocks()) {
		t.Fatalf("blocks = %d, want %d", len(blocks), len(model.DefaultTimeBlocks()))
	}

	if err := coord.SeedTimeBlocks(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	again, err := coord.ActiveTimeBlocks(ctx)
	if err != nil {
		t.Fatalf("list blocks: %v", err)
	}
	if len(again) != len(blocks) {
		t.Fatal("seeding must be idempotent")
	}
}

func TestReplayRemindersSchedulesFutureItems(t *testing.T) {
	coord, _, notifier := setupCoordinator(t)
	ctx := context.Background()
	now := coord.now()

	if _, err := coord.CreateItem(ctx, draftAt(now.Add(5*time.Hour))); err != nil {
		t.Fatalf("create future item: %v", err)
	}
	past := draftAt(now.Add(-5 * time.Hour))
	if _, err := coord.CreateItem(ctx, past); err != nil {
		t.Fatalf("create past item: %v", err)
	}
	silent := draftAt(now.Add(6 * time.Hour))
	silent.ReminderMinutesBefore = nil
	if _, err := coord.CreateItem(ctx, silent); err != nil {
		t.Fatalf("create silent item: %v", err)
	}

	notifier.scheduled = nil
	if err := coord.ReplayReminders(ctx); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(notifier.scheduled) != 1 {
		t.Fatalf("replayed = %d, want 1 (future item with a reminder)", len(notifier.scheduled))
	}
}

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("00:00")
	if err != nil {
		t.Fatalf("build spec: %v", err)
	}
	if spec != "0 0 * * *" {
		t.Fatalf("spec = %q", spec)
	}
	for _, bad := range []string{"", "24:00", "09:60", "nine"} {
		if _, err := buildDailySpec(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
