package models

import "time"

// Snapshot is one poll tick's observation of the foreground window.
// Valid is false when no foreground window could be determined.
type Snapshot struct {
	Valid       bool   `json:"valid"`
	ProcessID   int    `json:"process_id"`
	AppName     string `json:"app_name"`
	WindowTitle string `json:"window_title"`
}

// Identity is the tuple compared between ticks to detect a focus change.
type Identity struct {
	ProcessID   int
	AppName     string
	WindowTitle string
}

// Identity returns the snapshot's identity fields.
func (s Snapshot) Identity() Identity {
	return Identity{
		ProcessID:   s.ProcessID,
		AppName:     s.AppName,
		WindowTitle: s.WindowTitle,
	}
}

// Interval is one contiguous period during which a window held focus.
// A nil EndTime marks the open (currently active) interval.
type Interval struct {
	ID          int        `json:"id"`
	ProcessID   int        `json:"process_id"`
	AppName     string     `json:"app_name"`
	WindowTitle string     `json:"window_title"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}

// IsOpen reports whether the interval has no end time yet.
func (iv Interval) IsOpen() bool {
	return iv.EndTime == nil
}

// Duration returns the interval length, measured up to now while open.
func (iv Interval) Duration(now time.Time) time.Duration {
	end := now
	if iv.EndTime != nil {
		end = *iv.EndTime
	}
	if end.Before(iv.StartTime) {
		return 0
	}
	return end.Sub(iv.StartTime)
}

// EventKind labels a tracker transition.
type EventKind int

const (
	EventOpened EventKind = iota + 1
	EventClosed
	EventEvicted
)

func (k EventKind) String() string {
	switch k {
	case EventOpened:
		return "opened"
	case EventClosed:
		return "closed"
	case EventEvicted:
		return "evicted"
	default:
		return "unknown"
	}
}

// Event is emitted by the tracker for every change to the interval sequence.
// Interval is a copy taken right after the change.
type Event struct {
	Kind     EventKind `json:"kind"`
	Interval Interval  `json:"interval"`
}
