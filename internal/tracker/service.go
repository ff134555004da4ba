package tracker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/actionsum/usagetrack/internal/config"
	"github.com/actionsum/usagetrack/internal/models"
)

// Renderer receives the interval sequence after every tick.
type Renderer interface {
	Render(intervals []models.Interval, events []models.Event)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(intervals []models.Interval, events []models.Event)

func (f RendererFunc) Render(intervals []models.Interval, events []models.Event) {
	f(intervals, events)
}

// Service drives a Poller at a fixed period until its context is cancelled
// or Stop is called. It is the headless counterpart of the console UI.
type Service struct {
	config   *config.Config
	poller   *Poller
	renderer Renderer
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
}

func NewService(cfg *config.Config, poller *Poller, renderer Renderer) *Service {
	if renderer == nil {
		renderer = RendererFunc(func([]models.Interval, []models.Event) {})
	}
	return &Service{
		config:   cfg,
		poller:   poller,
		renderer: renderer,
		stopChan: make(chan struct{}),
	}
}

// Start runs the poll loop. On cancellation or Stop the open interval is
// closed and rendered one last time before Start returns nil.
func (s *Service) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("tracker is already running")
	}
	defer s.running.Store(false)

	log.Printf("Starting tracker with %v poll interval", s.config.Tracker.PollInterval)

	ticker := time.NewTicker(s.config.Tracker.PollInterval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Tracker stopped by context")
			s.finish()
			return nil

		case <-s.stopChan:
			log.Println("Tracker stopped")
			s.finish()
			return nil

		case <-ticker.C:
			if ctx.Err() != nil {
				continue
			}
			s.tick(ctx)
		}
	}
}

func (s *Service) tick(ctx context.Context) {
	events := s.poller.Tick(ctx)
	s.renderer.Render(s.poller.Tracker().Intervals(), events)
}

func (s *Service) finish() {
	t := s.poller.Tracker()
	events := t.Stop(s.poller.Now())
	s.renderer.Render(t.Intervals(), events)
}

// Stop asks a running Start to return.
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *Service) IsRunning() bool {
	return s.running.Load()
}
