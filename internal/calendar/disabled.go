package calendar

import (
	"context"
	"time"
)

// DisabledStore backs the bridge when calendar sync is turned off in config.
// It never grants access, so every bridge operation degrades to its soft
// failure result.
type DisabledStore struct{}

func (DisabledStore) RequestAccess(context.Context) (bool, error) { return false, nil }

func (DisabledStore) FetchEvents(context.Context, time.Time, time.Time) ([]Event, error) {
	return nil, nil
}

func (DisabledStore) CreateEvent(context.Context, string, string, time.Time, time.Time) (string, error) {
	return "", nil
}

func (DisabledStore) UpdateEvent(context.Context, string, string, string, time.Time, time.Time) error {
	return ErrEventNotFound
}

func (DisabledStore) DeleteEvent(context.Context, string) error { return ErrEventNotFound }

func (DisabledStore) ListCalendars(context.Context) ([]CalendarRef, error) { return nil, nil }
