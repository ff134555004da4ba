package tracker

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/actionsum/usagetrack/internal/models"
	"github.com/actionsum/usagetrack/pkg/window"
)

var errQueryInFlight = errors.New("previous window query still running")

type queryResult struct {
	info *window.WindowInfo
	err  error
}

// Poller performs one poll step: query the detector, normalize the result
// and feed it to the tracker.
type Poller struct {
	detector window.Detector
	tracker  *Tracker
	timeout  time.Duration
	now      func() time.Time

	inFlight atomic.Bool
	failing  bool
}

// NewPoller creates a poller. A timeout of zero or less leaves the detector
// call unbounded.
func NewPoller(det window.Detector, t *Tracker, timeout time.Duration) *Poller {
	return &Poller{
		detector: det,
		tracker:  t,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Tracker returns the tracker fed by this poller.
func (p *Poller) Tracker() *Tracker {
	return p.tracker
}

// Now returns the poller's current time.
func (p *Poller) Now() time.Time {
	return p.now()
}

// Tick queries the detector and feeds the snapshot to the tracker.
func (p *Poller) Tick(ctx context.Context) []models.Event {
	snap := p.Query(ctx)
	return p.tracker.Observe(snap, p.now())
}

// Query returns one normalized snapshot. Detector failures, including a
// missed deadline, yield an invalid snapshot. While a timed-out call is still
// outstanding no new call is started.
func (p *Poller) Query(ctx context.Context) models.Snapshot {
	info, err := p.boundedQuery(ctx)
	p.noteFailure(err)
	return Normalize(FromWindowInfo(info, err))
}

func (p *Poller) boundedQuery(ctx context.Context) (*window.WindowInfo, error) {
	if p.timeout <= 0 {
		return p.detector.GetFocusedWindow(ctx)
	}
	if !p.inFlight.CompareAndSwap(false, true) {
		return nil, errQueryInFlight
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan queryResult, 1)
	go func() {
		defer p.inFlight.Store(false)
		info, err := p.detector.GetFocusedWindow(ctx)
		done <- queryResult{info: info, err: err}
	}()

	select {
	case r := <-done:
		return r.info, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// noteFailure logs once per transition into and out of failure.
func (p *Poller) noteFailure(err error) {
	switch {
	case err != nil && !p.failing:
		p.failing = true
		if !errors.Is(err, window.ErrNoFocusedWindow) {
			log.Printf("Window query failed: %v", err)
		}
	case err == nil && p.failing:
		p.failing = false
		log.Printf("Window query recovered")
	}
}
