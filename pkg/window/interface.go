package window

import (
	"context"
	"errors"
)

// ErrNoFocusedWindow is returned when the platform reports no foreground window.
var ErrNoFocusedWindow = errors.New("no focused window")

// WindowInfo represents information about the currently focused window
type WindowInfo struct {
	PID           int // 0 when the platform cannot resolve it
	AppName       string
	WindowTitle   string
	ProcessName   string
	DisplayServer string // "x11", "wayland", "windows", "darwin"
}

// Detector is the interface that all window detection implementations must satisfy
type Detector interface {
	// GetFocusedWindow returns information about the currently focused window.
	// Handles needed for the query are acquired and released within the call.
	GetFocusedWindow(ctx context.Context) (*WindowInfo, error)

	// IsAvailable checks if this detector can run on the current system
	IsAvailable() bool

	// GetDisplayServer returns the display server or platform name
	GetDisplayServer() string

	// Close cleans up any resources used by the detector
	Close() error
}
