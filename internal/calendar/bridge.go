package calendar

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wrangleapp/wrangle/internal/logging"
	"github.com/wrangleapp/wrangle/internal/model"
)

// ErrEventNotFound is returned by an EventStore when an event id no longer
// resolves. The bridge treats it as "already gone", never as a failure worth
// surfacing.
var ErrEventNotFound = errors.New("calendar: event not found")

type AuthState string

const (
	AuthUnknown AuthState = "unknown"
	AuthGranted AuthState = "granted"
	AuthDenied  AuthState = "denied"
)

// Event is an entry in the external calendar store.
type Event struct {
	ID    string
	Title string
	Notes string
	Start time.Time
	End   time.Time
}

type CalendarRef struct {
	ID      string
	Name    string
	Primary bool
}

// EventStore is the raw external calendar contract. Implementations may fail
// loudly; the Bridge owns the softening policy.
type EventStore interface {
	RequestAccess(ctx context.Context) (bool, error)
	FetchEvents(ctx context.Context, start, end time.Time) ([]Event, error)
	CreateEvent(ctx context.Context, title, notes string, start, end time.Time) (string, error)
	UpdateEvent(ctx context.Context, id, title, notes string, start, end time.Time) error
	DeleteEvent(ctx context.Context, id string) error
	ListCalendars(ctx context.Context) ([]CalendarRef, error)
}

// Bridge mirrors planner items into an external calendar. Authorization is a
// lazily-cached state: unknown at start, set after the first request, and
// re-requested on the next call after a denial. Every operation degrades to an
// empty or negative result instead of propagating an error.
type Bridge struct {
	mu    sync.Mutex
	store EventStore
	auth  AuthState
	log   *logging.Logger
}

func NewBridge(store EventStore, log *logging.Logger) *Bridge {
	if log == nil {
		log = logging.Nop()
	}
	return &Bridge{store: store, auth: AuthUnknown, log: log.Named("calendar")}
}

func (b *Bridge) AuthStatus() AuthState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.auth
}

// RequestAccess asks the store for authorization and caches the outcome.
func (b *Bridge) RequestAccess(ctx context.Context) bool {
	granted, err := b.store.RequestAccess(ctx)
	if err != nil {
		b.log.Warnw("calendar access request failed", "err", err)
		granted = false
	}
	b.mu.Lock()
	if granted {
		b.auth = AuthGranted
	} else {
		b.auth = AuthDenied
	}
	b.mu.Unlock()
	return granted
}

func (b *Bridge) ensureAccess(ctx context.Context) bool {
	b.mu.Lock()
	granted := b.auth == AuthGranted
	b.mu.Unlock()
	if granted {
		return true
	}
	return b.RequestAccess(ctx)
}

// FetchEvents returns the external events overlapping [start, end). Denied
// access or a store failure yields an empty slice.
func (b *Bridge) FetchEvents(ctx context.Context, start, end time.Time) []Event {
	if !b.ensureAccess(ctx) {
		return nil
	}
	events, err := b.store.FetchEvents(ctx, start, end)
	if err != nil {
		b.log.Warnw("fetch events failed", "err", err)
		return nil
	}
	return events
}

// CreateEvent mirrors the item into the external store and returns the new
// event id, or "" when access is denied or creation fails. The caller persists
// the id onto the item; on "" the item's link must stay unset.
func (b *Bridge) CreateEvent(ctx context.Context, item model.Item) string {
	if !b.ensureAccess(ctx) {
		return ""
	}
	id, err := b.store.CreateEvent(ctx, item.Title, item.Notes, item.StartTime, item.EndTime)
	if err != nil {
		b.log.Warnw("create event failed", "item", item.ID, "err", err)
		return ""
	}
	return id
}

// UpdateEvent overwrites the linked event's title/notes/start/end. It returns
// false when the item has no link or the event no longer resolves; it never
// recreates a missing event.
func (b *Bridge) UpdateEvent(ctx context.Context, item model.Item) bool {
	if !item.IsSynced() {
		return false
	}
	if !b.ensureAccess(ctx) {
		return false
	}
	err := b.store.UpdateEvent(ctx, *item.CalendarEventID, item.Title, item.Notes, item.StartTime, item.EndTime)
	if err != nil {
		if !errors.Is(err, ErrEventNotFound) {
			b.log.Warnw("update event failed", "item", item.ID, "event", *item.CalendarEventID, "err", err)
		}
		return false
	}
	return true
}

// DeleteEvent removes the external event. A gone id reports false with no side
// effects, so retries are safe. The caller clears the item's link on success.
func (b *Bridge) DeleteEvent(ctx context.Context, eventID string) bool {
	if eventID == "" {
		return false
	}
	if !b.ensureAccess(ctx) {
		return false
	}
	if err := b.store.DeleteEvent(ctx, eventID); err != nil {
		if !errors.Is(err, ErrEventNotFound) {
			b.log.Warnw("delete event failed", "event", eventID, "err", err)
		}
		return false
	}
	return true
}

// Calendars lists the calendars available to the account.
func (b *Bridge) Calendars(ctx context.Context) []CalendarRef {
	if !b.ensureAccess(ctx) {
		return nil
	}
	refs, err := b.store.ListCalendars(ctx)
	if err != nil {
		b.log.Warnw("list calendars failed", "err", err)
		return nil
	}
	return refs
}
