package tracker

import (
	"time"

	"github.com/actionsum/usagetrack/internal/models"
)

// Store holds the interval sequence in creation order.
// The caller closes the open interval before appending, so an evicted
// interval is always a closed one.
type Store interface {
	// Append adds iv as the newest element. When the store is full the
	// oldest element is dropped and returned with ok set.
	Append(iv models.Interval) (evicted models.Interval, ok bool)

	// CloseLast sets the end time of the newest element if it is open.
	CloseLast(end time.Time) (models.Interval, bool)

	// Last returns the newest element.
	Last() (models.Interval, bool)

	// Len returns the number of stored intervals.
	Len() int

	// Intervals returns a copy of the sequence, oldest first.
	Intervals() []models.Interval
}

// NewStore returns a ring buffer of the given capacity, or an unbounded
// store when capacity is not positive.
func NewStore(capacity int) Store {
	if capacity <= 0 {
		return &unboundedStore{}
	}
	return &boundedStore{buf: make([]models.Interval, capacity)}
}

type boundedStore struct {
	buf  []models.Interval
	head int // index of the oldest element
	size int
}

func (s *boundedStore) Append(iv models.Interval) (models.Interval, bool) {
	if s.size < len(s.buf) {
		s.buf[(s.head+s.size)%len(s.buf)] = iv
		s.size++
		return models.Interval{}, false
	}

	evicted := s.buf[s.head]
	s.buf[s.head] = iv
	s.head = (s.head + 1) % len(s.buf)
	return evicted, true
}

func (s *boundedStore) last() *models.Interval {
	if s.size == 0 {
		return nil
	}
	return &s.buf[(s.head+s.size-1)%len(s.buf)]
}

func (s *boundedStore) CloseLast(end time.Time) (models.Interval, bool) {
	return closeInterval(s.last(), end)
}

func (s *boundedStore) Last() (models.Interval, bool) {
	if iv := s.last(); iv != nil {
		return copyInterval(*iv), true
	}
	return models.Interval{}, false
}

func (s *boundedStore) Len() int {
	return s.size
}

func (s *boundedStore) Intervals() []models.Interval {
	out := make([]models.Interval, 0, s.size)
	for i := 0; i < s.size; i++ {
		out = append(out, copyInterval(s.buf[(s.head+i)%len(s.buf)]))
	}
	return out
}

type unboundedStore struct {
	items []models.Interval
}

func (s *unboundedStore) Append(iv models.Interval) (models.Interval, bool) {
	s.items = append(s.items, iv)
	return models.Interval{}, false
}

func (s *unboundedStore) CloseLast(end time.Time) (models.Interval, bool) {
	if len(s.items) == 0 {
		return models.Interval{}, false
	}
	return closeInterval(&s.items[len(s.items)-1], end)
}

func (s *unboundedStore) Last() (models.Interval, bool) {
	if len(s.items) == 0 {
		return models.Interval{}, false
	}
	return copyInterval(s.items[len(s.items)-1]), true
}

func (s *unboundedStore) Len() int {
	return len(s.items)
}

func (s *unboundedStore) Intervals() []models.Interval {
	out := make([]models.Interval, 0, len(s.items))
	for _, iv := range s.items {
		out = append(out, copyInterval(iv))
	}
	return out
}

func closeInterval(iv *models.Interval, end time.Time) (models.Interval, bool) {
	if iv == nil || !iv.IsOpen() {
		return models.Interval{}, false
	}
	iv.EndTime = &end
	return copyInterval(*iv), true
}

// copyInterval detaches the EndTime pointer from the stored element.
func copyInterval(iv models.Interval) models.Interval {
	if iv.EndTime != nil {
		end := *iv.EndTime
		iv.EndTime = &end
	}
	return iv
}
