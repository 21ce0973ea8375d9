package storage

import "time"

type Item struct {
	ID                    string
	Title                 string
	Notes                 string
	StartTime             time.Time
	EndTime               time.Time
	IsCompleted           bool
	Priority              string
	CalendarEventID       *string
	ReminderMinutesBefore *int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type TimeBlock struct {
	ID          string
	Name        string
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
	Color       string
	IsActive    bool
}

// ItemListFilter narrows ListItems. From/To bound the item start time as
// [From, To); zero values leave the corresponding bound open.
type ItemListFilter struct {
	From      time.Time
	To        time.Time
	Completed *bool
	Limit     int
	Offset    int
}

type TimeBlockListFilter struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}
