package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/actionsum/usagetrack/internal/config"
	"github.com/actionsum/usagetrack/internal/models"
	"github.com/actionsum/usagetrack/internal/reporter"
	"github.com/actionsum/usagetrack/internal/tracker"
	"github.com/actionsum/usagetrack/internal/tui"
	"github.com/actionsum/usagetrack/pkg/window"
)

// statusReporter is implemented by detector chains such as hybrid.Detector.
type statusReporter interface {
	GetStatus() string
	LastSuccessfulMethod() string
}

func logDetectorStatus(det window.Detector) {
	if s, ok := det.(statusReporter); ok {
		log.Print(s.GetStatus())
		return
	}
	log.Printf("Window detector: %s", det.GetDisplayServer())
}

func logLastMethod(det window.Detector) {
	if s, ok := det.(statusReporter); ok {
		if last := s.LastSuccessfulMethod(); last != "" {
			log.Printf("Last window detector used: %s", last)
		}
	}
}

// runHeadless polls until SIGINT or SIGTERM, logging every change to stderr,
// then prints the final table to stdout.
func runHeadless(cfg *config.Config, det window.Detector, poller *tracker.Poller, rep *reporter.Reporter) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.SetOutput(os.Stderr)
	log.Printf("Starting headless tracker\n%s", cfg)
	logDetectorStatus(det)

	renderer := tracker.RendererFunc(func(_ []models.Interval, events []models.Event) {
		for _, e := range events {
			log.Println(rep.FormatEvent(e))
		}
	})

	svc := tracker.NewService(cfg, poller, renderer)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	logLastMethod(det)

	fmt.Print(rep.FormatTable(reporter.StoppedHeader, poller.Tracker().Intervals(), nil))
	return nil
}

// runInteractive draws the live table until the user stops tracking. The
// table is printed again after the alternate screen is released. An
// interrupt or termination signal is a clean stop, like pressing 'q'.
func runInteractive(cfg *config.Config, det window.Detector, poller *tracker.Poller, rep *reporter.Reporter, autoStart bool) error {
	if cfg.Log.File != "" {
		f, err := tea.LogToFile(cfg.Log.File, appName)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	logDetectorStatus(det)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := tui.NewModel(ctx, poller, rep, cfg.Tracker.PollInterval, autoStart)
	result, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if errors.Is(err, tea.ErrInterrupted) {
		log.Println("Interrupted")
		err = nil
	}
	if err != nil {
		return err
	}

	t := poller.Tracker()
	if !t.Stopped() {
		t.Stop(poller.Now())
	}
	if final, ok := result.(tui.Model); ok && final.Started() {
		fmt.Print(rep.FormatTable(reporter.StoppedHeader, t.Intervals(), nil))
	}
	logLastMethod(det)
	log.Println("Tracker stopped")
	return nil
}
