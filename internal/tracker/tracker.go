package tracker

import (
	"time"

	"github.com/actionsum/usagetrack/internal/models"
)

// State is the tracker's session state.
type State int

const (
	NoActiveSession State = iota
	SessionOpen
)

func (s State) String() string {
	if s == SessionOpen {
		return "session-open"
	}
	return "no-active-session"
}

// Tracker turns a stream of normalized snapshots into an ordered sequence of
// non-overlapping intervals. At most one interval is open and it is always
// the newest. Tracker is not safe for concurrent use; one goroutine owns it.
type Tracker struct {
	store    Store
	state    State
	nextID   int
	last     models.Identity // identity of the last valid snapshot
	hasLast  bool
	lastTick time.Time
	evicted  int
	stopped  bool
}

// New creates a tracker keeping at most capacity intervals. A capacity of
// zero or less keeps every interval.
func New(capacity int) *Tracker {
	return NewWithStore(NewStore(capacity))
}

// NewWithStore creates a tracker backed by the given store.
func NewWithStore(store Store) *Tracker {
	return &Tracker{
		store:  store,
		nextID: 1,
	}
}

// Observe feeds one normalized snapshot taken at now and returns the events
// it caused. A valid snapshot identical to the last valid one changes nothing.
func (t *Tracker) Observe(snap models.Snapshot, now time.Time) []models.Event {
	if t.stopped {
		return nil
	}
	now = t.clamp(now)

	if !snap.Valid {
		if t.state != SessionOpen {
			return nil
		}
		return t.closeOpen(now, nil)
	}

	id := snap.Identity()
	changed := t.state == NoActiveSession || !t.hasLast || id != t.last
	t.last = id
	t.hasLast = true
	if !changed {
		return nil
	}

	events := t.closeOpen(now, nil)
	return t.open(snap, now, events)
}

// Stop closes the open interval, if any, and freezes the tracker.
func (t *Tracker) Stop(now time.Time) []models.Event {
	if t.stopped {
		return nil
	}
	now = t.clamp(now)
	events := t.closeOpen(now, nil)
	t.stopped = true
	return events
}

func (t *Tracker) closeOpen(now time.Time, events []models.Event) []models.Event {
	if t.state != SessionOpen {
		return events
	}
	t.state = NoActiveSession
	if iv, ok := t.store.CloseLast(now); ok {
		events = append(events, models.Event{Kind: models.EventClosed, Interval: iv})
	}
	return events
}

func (t *Tracker) open(snap models.Snapshot, now time.Time, events []models.Event) []models.Event {
	iv := models.Interval{
		ID:          t.nextID,
		ProcessID:   snap.ProcessID,
		AppName:     snap.AppName,
		WindowTitle: snap.WindowTitle,
		StartTime:   now,
	}
	t.nextID++

	if evicted, ok := t.store.Append(iv); ok {
		t.evicted++
		events = append(events, models.Event{Kind: models.EventEvicted, Interval: evicted})
	}
	t.state = SessionOpen
	return append(events, models.Event{Kind: models.EventOpened, Interval: iv})
}

// clamp keeps timestamps non-decreasing so a clock stepping backwards cannot
// produce overlapping or negative intervals.
func (t *Tracker) clamp(now time.Time) time.Time {
	if !t.lastTick.IsZero() && now.Before(t.lastTick) {
		return t.lastTick
	}
	t.lastTick = now
	return now
}

// State returns the current session state.
func (t *Tracker) State() State {
	return t.state
}

// Stopped reports whether Stop has been called.
func (t *Tracker) Stopped() bool {
	return t.stopped
}

// Current returns the open interval, if any.
func (t *Tracker) Current() (models.Interval, bool) {
	if t.state != SessionOpen {
		return models.Interval{}, false
	}
	return t.store.Last()
}

// Intervals returns a copy of the stored sequence, oldest first.
func (t *Tracker) Intervals() []models.Interval {
	return t.store.Intervals()
}

// Len returns the number of stored intervals.
func (t *Tracker) Len() int {
	return t.store.Len()
}

// Evicted returns how many intervals were dropped to make room.
func (t *Tracker) Evicted() int {
	return t.evicted
}
