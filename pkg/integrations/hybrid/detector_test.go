package hybrid

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/actionsum/usagetrack/pkg/window"
)

type stubDetector struct {
	name      string
	available bool
	info      *window.WindowInfo
	err       error
	calls     int
	closed    bool
}

func (s *stubDetector) GetFocusedWindow(ctx context.Context) (*window.WindowInfo, error) {
	s.calls++
	return s.info, s.err
}

func (s *stubDetector) IsAvailable() bool        { return s.available }
func (s *stubDetector) GetDisplayServer() string { return s.name }
func (s *stubDetector) Close() error             { s.closed = true; return nil }

func TestNewDetectorSkipsUnavailable(t *testing.T) {
	off := &stubDetector{name: "wayland"}
	on := &stubDetector{name: "x11", available: true}

	d, err := NewDetector(off, nil, on)
	if err != nil {
		t.Fatalf("NewDetector() error = %v", err)
	}
	if got := d.GetDisplayServer(); got != "x11" {
		t.Errorf("GetDisplayServer() = %s, want x11", got)
	}
	if !off.closed {
		t.Error("unavailable detector was not closed")
	}
}

func TestNewDetectorNoneAvailable(t *testing.T) {
	if _, err := NewDetector(&stubDetector{name: "x11"}); err == nil {
		t.Error("NewDetector() error = nil with no available detector")
	}
}

func TestGetFocusedWindowFallsThrough(t *testing.T) {
	first := &stubDetector{name: "wayland", available: true, err: errors.New("Shell.Eval refused")}
	second := &stubDetector{name: "x11", available: true, info: &window.WindowInfo{AppName: "xterm"}}

	d, err := NewDetector(first, second)
	if err != nil {
		t.Fatal(err)
	}

	info, err := d.GetFocusedWindow(context.Background())
	if err != nil {
		t.Fatalf("GetFocusedWindow() error = %v", err)
	}
	if info.AppName != "xterm" {
		t.Errorf("AppName = %s, want xterm", info.AppName)
	}
	if got := d.LastSuccessfulMethod(); got != "x11" {
		t.Errorf("LastSuccessfulMethod() = %s, want x11", got)
	}
	if !strings.Contains(d.GetStatus(), "Last successful method: x11") {
		t.Errorf("GetStatus() = %q", d.GetStatus())
	}
}

func TestGetFocusedWindowAllFail(t *testing.T) {
	tests := []struct {
		name         string
		errs         []error
		wantNoWindow bool
	}{
		{name: "hard failures", errs: []error{errors.New("a"), errors.New("b")}},
		{name: "one reports no window", errs: []error{errors.New("a"), window.ErrNoFocusedWindow}, wantNoWindow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dets []window.Detector
			for _, e := range tt.errs {
				dets = append(dets, &stubDetector{name: "stub", available: true, err: e})
			}
			d, err := NewDetector(dets...)
			if err != nil {
				t.Fatal(err)
			}

			_, err = d.GetFocusedWindow(context.Background())
			if err == nil {
				t.Fatal("GetFocusedWindow() error = nil")
			}
			if got := errors.Is(err, window.ErrNoFocusedWindow); got != tt.wantNoWindow {
				t.Errorf("errors.Is(ErrNoFocusedWindow) = %v, want %v (err %v)", got, tt.wantNoWindow, err)
			}
		})
	}
}

func TestGetFocusedWindowCancelled(t *testing.T) {
	stub := &stubDetector{name: "x11", available: true, info: &window.WindowInfo{}}
	d, err := NewDetector(stub)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.GetFocusedWindow(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("GetFocusedWindow() error = %v, want context.Canceled", err)
	}
	if stub.calls != 0 {
		t.Errorf("calls = %d, want 0", stub.calls)
	}
}

func TestClose(t *testing.T) {
	stub := &stubDetector{name: "x11", available: true}
	d, err := NewDetector(stub)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !stub.closed {
		t.Error("inner detector not closed")
	}
}
