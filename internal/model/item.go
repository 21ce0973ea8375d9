package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority = errors.New("model: invalid item priority")
	ErrInvalidTimeSpan = errors.New("model: item end time must be after start time")
	ErrInvalidReminder = errors.New("model: reminder minutes must be >= 0")
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityHigh:
		return "High"
	default:
		return "Medium"
	}
}

// Color returns the symbolic palette name used by the views.
func (p Priority) Color() string {
	switch p {
	case PriorityLow:
		return "blue"
	case PriorityHigh:
		return "red"
	default:
		return "orange"
	}
}

// Item is a user-created, time-boxed planner entry. CalendarEventID is set iff
// an external calendar event currently mirrors the item; it is written only by
// the coordinator's calendar path. ReminderMinutesBefore present means a
// reminder is wanted, absent means none.
type Item struct {
	ID                    string
	Title                 string
	Notes                 string
	StartTime             time.Time
	EndTime               time.Time
	IsCompleted           bool
	Priority              Priority
	CalendarEventID       *string
	ReminderMinutesBefore *int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// DefaultReminderMinutes is applied by the editor when creating a new item.
const DefaultReminderMinutes = 15

func (i Item) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return errors.New("model: item id is required")
	}
	if !i.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, i.Priority)
	}
	if i.StartTime.IsZero() || i.EndTime.IsZero() {
		return errors.New("model: item start and end times are required")
	}
	if !i.EndTime.After(i.StartTime) {
		return fmt.Errorf("%w: start=%s end=%s", ErrInvalidTimeSpan,
			i.StartTime.Format(time.RFC3339), i.EndTime.Format(time.RFC3339))
	}
	if i.ReminderMinutesBefore != nil && *i.ReminderMinutesBefore < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidReminder, *i.ReminderMinutesBefore)
	}
	if i.CreatedAt.IsZero() {
		return errors.New("model: item created_at is required")
	}
	return nil
}

func (i Item) IsSynced() bool {
	return i.CalendarEventID != nil && *i.CalendarEventID != ""
}

func (i Item) WantsReminder() bool {
	return i.ReminderMinutesBefore != nil
}

func (i Item) Duration() time.Duration {
	return i.EndTime.Sub(i.StartTime)
}

// DurationLabel renders the span the way the editor shows it, e.g. "1h 30m".
func (i Item) DurationLabel() string {
	total := int(i.Duration().Minutes())
	hours := total / 60
	minutes := total % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
