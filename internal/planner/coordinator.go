package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wrangleapp/wrangle/internal/logging"
	"github.com/wrangleapp/wrangle/internal/model"
	"github.com/wrangleapp/wrangle/internal/storage"
)

// CalendarSync is the slice of the calendar bridge the coordinator drives.
// All methods are soft-failing: they report success/identity, never errors.
type CalendarSync interface {
	CreateEvent(ctx context.Context, item model.Item) string
	UpdateEvent(ctx context.Context, item model.Item) bool
	DeleteEvent(ctx context.Context, eventID string) bool
}

// ReminderSync is the slice of the notification scheduler the coordinator
// drives.
type ReminderSync interface {
	ScheduleForItem(item model.Item, now time.Time)
	CancelForItem(itemID string)
}

// ItemDraft carries the editor's save intent for a new item.
type ItemDraft struct {
	Title                 string
	Notes                 string
	StartTime             time.Time
	EndTime               time.Time
	Priority              model.Priority
	ReminderMinutesBefore *int
	SyncToCalendar        bool
}

// Coordinator owns every planner item mutation and keeps the three
// representations of an item (local record, external calendar event, pending
// notification) from diverging. The store write is synchronous and
// authoritative; bridge and notifier calls are detached best-effort side
// effects whose failures are logged and swallowed, never surfaced to the
// caller.
type Coordinator struct {
	repo     storage.Repository
	bridge   CalendarSync
	notifier ReminderSync
	log      *logging.Logger

	now      func() time.Time
	dispatch func(func())
}

func NewCoordinator(repo storage.Repository, bridge CalendarSync, notifier ReminderSync, log *logging.Logger) *Coordinator {
	if log == nil {
		log = logging.Nop()
	}
	return &Coordinator{
		repo:     repo,
		bridge:   bridge,
		notifier: notifier,
		log:      log.Named("planner"),
		now:      time.Now,
		dispatch: func(fn func()) { go fn() },
	}
}

// CreateItem persists a new item and kicks off the calendar/reminder side
// effects. A store failure is fatal to the intent; side-effect failures are
// not. On a calendar create failure the item simply stays unlinked, retryable
// by saving again with sync enabled.
func (c *Coordinator) CreateItem(ctx context.Context, draft ItemDraft) (model.Item, error) {
	now := c.now()
	item := model.Item{
		ID:                    uuid.NewString(),
		Title:                 draft.Title,
		Notes:                 draft.Notes,
		StartTime:             draft.StartTime,
		EndTime:               draft.EndTime,
		Priority:              draft.Priority,
		ReminderMinutesBefore: draft.ReminderMinutesBefore,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if item.Priority == "" {
		item.Priority = model.PriorityMedium
	}
	if err := item.Validate(); err != nil {
		return model.Item{}, err
	}
	if err := c.repo.CreateItem(ctx, toRecord(item)); err != nil {
		return model.Item{}, fmt.Errorf("create item: %w", err)
	}

	if draft.SyncToCalendar {
		c.dispatch(func() { c.createAndLink(item) })
	}
	c.dispatch(func() { c.notifier.ScheduleForItem(item, c.now()) })
	return item, nil
}

// UpdateItem persists the edited item and reconciles the external stores.
// syncToCalendar is the editor's toggle state: enabling it on an unlinked item
// creates the mirror event, leaving it on pushes field changes, and turning it
// off on a linked item deletes the mirror and clears the link.
func (c *Coordinator) UpdateItem(ctx context.Context, item model.Item, syncToCalendar bool) (model.Item, error) {
	item.UpdatedAt = c.now()
	if err := item.Validate(); err != nil {
		return model.Item{}, err
	}
	if err := c.repo.UpdateItem(ctx, toRecord(item)); err != nil {
		return model.Item{}, fmt.Errorf("update item: %w", err)
	}

	switch {
	case syncToCalendar && !item.IsSynced():
		c.dispatch(func() { c.createAndLink(item) })
	case syncToCalendar && item.IsSynced():
		c.dispatch(func() {
			if !c.bridge.UpdateEvent(context.Background(), item) {
				c.log.Infow("calendar update skipped", "item", item.ID)
			}
		})
	case !syncToCalendar && item.IsSynced():
		c.dispatch(func() { c.unlink(item) })
	}
	c.dispatch(func() { c.applyReminder(item) })
	return item, nil
}

// ToggleComplete flips completion. It is a pure local mutation: neither the
// calendar link nor the pending notification is touched.
func (c *Coordinator) ToggleComplete(ctx context.Context, id string) (model.Item, error) {
	record, err := c.repo.GetItem(ctx, id)
	if err != nil {
		return model.Item{}, fmt.Errorf("get item: %w", err)
	}
	item := fromRecord(record)
	item.IsCompleted = !item.IsCompleted
	item.UpdatedAt = c.now()
	if err := c.repo.UpdateItem(ctx, toRecord(item)); err != nil {
		return model.Item{}, fmt.Errorf("toggle complete: %w", err)
	}
	return item, nil
}

// DeleteItem cascades: the mirror event delete and reminder cancel run
// best-effort, then the record is removed. Record removal is authoritative
// and happens regardless of how the side-effect calls fare.
func (c *Coordinator) DeleteItem(ctx context.Context, id string) error {
	record, err := c.repo.GetItem(ctx, id)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	item := fromRecord(record)

	if item.IsSynced() {
		eventID := *item.CalendarEventID
		c.dispatch(func() {
			if !c.bridge.DeleteEvent(context.Background(), eventID) {
				c.log.Infow("calendar delete skipped", "item", item.ID, "event", eventID)
			}
		})
	}
	c.dispatch(func() { c.notifier.CancelForItem(item.ID) })

	if err := c.repo.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (c *Coordinator) Item(ctx context.Context, id string) (model.Item, error) {
	record, err := c.repo.GetItem(ctx, id)
	if err != nil {
		return model.Item{}, err
	}
	return fromRecord(record), nil
}

// ItemsForDay returns the items starting on the calendar day containing t, in
// t's location.
func (c *Coordinator) ItemsForDay(ctx context.Context, t time.Time) ([]model.Item, error) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return c.ItemsForRange(ctx, start, start.AddDate(0, 0, 1))
}

func (c *Coordinator) ItemsForRange(ctx context.Context, from, to time.Time) ([]model.Item, error) {
	records, err := c.repo.ListItems(ctx, storage.ItemListFilter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	out := make([]model.Item, 0, len(records))
	for _, r := range records {
		out = append(out, fromRecord(r))
	}
	return out, nil
}

func (c *Coordinator) ActiveTimeBlocks(ctx context.Context) ([]model.TimeBlock, error) {
	records, err := c.repo.ListTimeBlocks(ctx, storage.TimeBlockListFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list time blocks: %w", err)
	}
	out := make([]model.TimeBlock, 0, len(records))
	for _, r := range records {
		out = append(out, blockFromRecord(r))
	}
	return out, nil
}

// SeedTimeBlocks installs the default day template on a fresh database.
func (c *Coordinator) SeedTimeBlocks(ctx context.Context) error {
	count, err := c.repo.CountTimeBlocks(ctx)
	if err != nil {
		return fmt.Errorf("count time blocks: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, block := range model.DefaultTimeBlocks() {
		block.ID = uuid.NewString()
		if err := c.repo.CreateTimeBlock(ctx, blockToRecord(block)); err != nil {
			return fmt.Errorf("seed time block %q: %w", block.Name, err)
		}
	}
	return nil
}

// ReplayReminders re-registers pending notifications for items that still
// have a future start. The in-process engine loses its queue across restarts,
// so this runs at startup and once a day at midnight.
func (c *Coordinator) ReplayReminders(ctx context.Context) error {
	now := c.now()
	records, err := c.repo.ListItems(ctx, storage.ItemListFilter{From: now})
	if err != nil {
		return fmt.Errorf("list items for replay: %w", err)
	}
	replayed := 0
	for _, record := range records {
		item := fromRecord(record)
		if !item.WantsReminder() {
			continue
		}
		c.notifier.ScheduleForItem(item, now)
		replayed++
	}
	c.log.Infow("reminders replayed", "count", replayed)
	return nil
}

// createAndLink runs detached: it mirrors the item into the calendar and, on
// success, persists the returned event id. By the time the id comes back the
// record may have been deleted; that race is accepted and the link write is
// simply skipped.
func (c *Coordinator) createAndLink(item model.Item) {
	ctx := context.Background()
	eventID := c.bridge.CreateEvent(ctx, item)
	if eventID == "" {
		c.log.Infow("calendar create skipped", "item", item.ID)
		return
	}
	record, err := c.repo.GetItem(ctx, item.ID)
	if err != nil {
		c.log.Warnw("link write skipped, item gone", "item", item.ID, "event", eventID)
		return
	}
	record.CalendarEventID = &eventID
	if err := c.repo.UpdateItem(ctx, record); err != nil {
		c.log.Warnw("link write failed", "item", item.ID, "event", eventID, "err", err)
	}
}

// unlink runs detached: it deletes the mirror event and clears the stored
// link. When the delete reports failure the link is kept so a later save can
// retry.
func (c *Coordinator) unlink(item model.Item) {
	ctx := context.Background()
	if !c.bridge.DeleteEvent(ctx, *item.CalendarEventID) {
		c.log.Infow("calendar unlink skipped", "item", item.ID)
		return
	}
	record, err := c.repo.GetItem(ctx, item.ID)
	if err != nil {
		return
	}
	record.CalendarEventID = nil
	if err := c.repo.UpdateItem(ctx, record); err != nil {
		c.log.Warnw("unlink write failed", "item", item.ID, "err", err)
	}
}

// applyReminder re-derives the single pending notification for the item:
// always cancel, then schedule again if a reminder is still wanted.
func (c *Coordinator) applyReminder(item model.Item) {
	c.notifier.CancelForItem(item.ID)
	c.notifier.ScheduleForItem(item, c.now())
}

func toRecord(item model.Item) storage.Item {
	return storage.Item{
		ID:                    item.ID,
		Title:                 item.Title,
		Notes:                 item.Notes,
		StartTime:             item.StartTime,
		EndTime:               item.EndTime,
		IsCompleted:           item.IsCompleted,
		Priority:              string(item.Priority),
		CalendarEventID:       item.CalendarEventID,
		ReminderMinutesBefore: item.ReminderMinutesBefore,
		CreatedAt:             item.CreatedAt,
		UpdatedAt:             item.UpdatedAt,
	}
}

func fromRecord(record storage.Item) model.Item {
	return model.Item{
		ID:                    record.ID,
		Title:                 record.Title,
		Notes:                 record.Notes,
		StartTime:             record.StartTime,
		EndTime:               record.EndTime,
		IsCompleted:           record.IsCompleted,
		Priority:              model.Priority(record.Priority),
		CalendarEventID:       record.CalendarEventID,
		ReminderMinutesBefore: record.ReminderMinutesBefore,
		CreatedAt:             record.CreatedAt,
		UpdatedAt:             record.UpdatedAt,
	}
}

func blockToRecord(block model.TimeBlock) storage.TimeBlock {
	return storage.TimeBlock{
		ID:          block.ID,
		Name:        block.Name,
		StartHour:   block.StartHour,
		StartMinute: block.StartMinute,
		EndHour:     block.EndHour,
		EndMinute:   block.EndMinute,
		Color:       block.Color,
		IsActive:    block.IsActive,
	}
}

func blockFromRecord(record storage.TimeBlock) model.TimeBlock {
	return model.TimeBlock{
		ID:          record.ID,
		Name:        record.Name,
		StartHour:   record.StartHour,
		StartMinute: record.StartMinute,
		EndHour:     record.EndHour,
		EndMinute:   record.EndMinute,
		Color:       record.Color,
		IsActive:    record.IsActive,
	}
}
