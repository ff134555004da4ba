package hybrid

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/actionsum/usagetrack/pkg/window"
)

// Detector tries a list of window detectors in order and returns the first
// answer. Detectors that report themselves unavailable are skipped.
type Detector struct {
	detectors []window.Detector

	mu                   sync.Mutex
	lastSuccessfulMethod string
}

// NewDetector keeps the available detectors from candidates, preserving order.
// It fails when none are available.
func NewDetector(candidates ...window.Detector) (*Detector, error) {
	d := &Detector{}
	for _, det := range candidates {
		if det == nil {
			continue
		}
		if !det.IsAvailable() {
			det.Close()
			continue
		}
		d.detectors = append(d.detectors, det)
		log.Printf("Window detector initialized: %s", det.GetDisplayServer())
	}

	if len(d.detectors) == 0 {
		return nil, errors.New("no window detector available")
	}
	return d, nil
}

func (d *Detector) GetFocusedWindow(ctx context.Context) (*window.WindowInfo, error) {
	var errs []string
	noWindow := false

	for _, det := range d.detectors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := det.GetFocusedWindow(ctx)
		if err == nil && info != nil {
			d.mu.Lock()
			d.lastSuccessfulMethod = det.GetDisplayServer()
			d.mu.Unlock()
			return info, nil
		}
		if err == nil {
			err = window.ErrNoFocusedWindow
		}
		if errors.Is(err, window.ErrNoFocusedWindow) {
			noWindow = true
		}
		errs = append(errs, fmt.Sprintf("%s: %v", det.GetDisplayServer(), err))
	}

	if noWindow {
		return nil, errors.Wrap(window.ErrNoFocusedWindow, strings.Join(errs, "; "))
	}
	return nil, errors.Errorf("all detection methods failed: %s", strings.Join(errs, "; "))
}

func (d *Detector) IsAvailable() bool {
	for _, det := range d.detectors {
		if det.IsAvailable() {
			return true
		}
	}
	return false
}

// GetDisplayServer names the first configured detector.
func (d *Detector) GetDisplayServer() string {
	if len(d.detectors) == 0 {
		return "none"
	}
	return d.detectors[0].GetDisplayServer()
}

// LastSuccessfulMethod names the detector that answered the last query.
func (d *Detector) LastSuccessfulMethod() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastSuccessfulMethod
}

func (d *Detector) GetStatus() string {
	var b strings.Builder
	b.WriteString("Hybrid Detector Status:\n")
	for i, det := range d.detectors {
		fmt.Fprintf(&b, "  %d. %s (available: %v)\n", i+1, det.GetDisplayServer(), det.IsAvailable())
	}
	last := d.LastSuccessfulMethod()
	if last == "" {
		last = "(none)"
	}
	fmt.Fprintf(&b, "  Last successful method: %s\n", last)
	return b.String()
}

func (d *Detector) Close() error {
	for _, det := range d.detectors {
		if err := det.Close(); err != nil {
			log.Printf("Error closing %s detector: %v", det.GetDisplayServer(), err)
		}
	}
	return nil
}
