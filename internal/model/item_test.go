package model

import (
	"errors"
	"testing"
	"time"
)

func validItem() Item {
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	minutes := DefaultReminderMinutes
	return Item{
		ID:                    "item-1",
		Title:                 "Plan sprint",
		Notes:                 "Agenda in shared doc",
		StartTime:             start,
		EndTime:               start.Add(time.Hour),
		Priority:              PriorityMedium,
		ReminderMinutesBefore: &minutes,
		CreatedAt:             start.Add(-24 * time.Hour),
		UpdatedAt:             start.Add(-24 * time.Hour),
	}
}

func TestItemValidateSuccess(t *testing.T) {
	if err := validItem().Validate(); err != nil {
		t.Fatalf("expected valid item, got error: %v", err)
	}
}

func TestItemValidateAllowsEmptyTitle(t *testing.T) {
	// The model permits empty titles; only the editor refuses to save them.
	item := validItem()
	item.Title = ""
	if err := item.Validate(); err != nil {
		t.Fatalf("expected empty title to validate, got: %v", err)
	}
}

func TestItemValidateRejectsInvertedTimeSpan(t *testing.T) {
	item := validItem()
	item.EndTime = item.StartTime
	err := item.Validate()
	if err == nil || !errors.Is(err, ErrInvalidTimeSpan) {
		t.Fatalf("expected ErrInvalidTimeSpan, got: %v", err)
	}

	item.EndTime = item.StartTime.Add(-time.Minute)
	err = item.Validate()
	if err == nil || !errors.Is(err, ErrInvalidTimeSpan) {
		t.Fatalf("expected ErrInvalidTimeSpan, got: %v", err)
	}
}

func TestItemValidateRejectsNegativeReminder(t *testing.T) {
	item := validItem()
	bad := -5
	item.ReminderMinutesBefore = &bad
	err := item.Validate()
	if err == nil || !errors.Is(err, ErrInvalidReminder) {
		t.Fatalf("expected ErrInvalidReminder, got: %v", err)
	}
}

func TestItemValidateRejectsInvalidPriority(t *testing.T) {
	item := validItem()
	item.Priority = Priority("urgent")
	err := item.Validate()
	if err == nil || !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}
}

func TestItemSyncAndReminderFlags(t *testing.T) {
	item := validItem()
	if item.IsSynced() {
		t.Fatal("item without calendar event id must not report synced")
	}
	eventID := "evt-abc"
	item.CalendarEventID = &eventID
	if !item.IsSynced() {
		t.Fatal("item with calendar event id must report synced")
	}

	if !item.WantsReminder() {
		t.Fatal("item with reminder minutes must want a reminder")
	}
	item.ReminderMinutesBefore = nil
	if item.WantsReminder() {
		t.Fatal("item without reminder minutes must not want a reminder")
	}
}

func TestItemDurationLabel(t *testing.T) {
	item := validItem()
	item.EndTime = item.StartTime.Add(45 * time.Minute)
	if got := item.DurationLabel(); got != "45m" {
		t.Fatalf("unexpected duration label: %q", got)
	}
	item.EndTime = item.StartTime.Add(2*time.Hour + 15*time.Minute)
	if got := item.DurationLabel(); got != "2h 15m" {
		t.Fatalf("unexpected duration label: %q", got)
	}
}

func TestPriorityLabelsAndColors(t *testing.T) {
	if PriorityLow.Label() != "Low" || PriorityMedium.Label() != "Medium" || PriorityHigh.Label() != "High" {
		t.Fatal("unexpected priority labels")
	}
	if PriorityLow.Color() != "blue" || PriorityMedium.Color() != "orange" || PriorityHigh.Color() != "red" {
		t.Fatal("unexpected priority colors")
	}
}
