package detector

import (
	"os"

	"github.com/actionsum/usagetrack/pkg/window"
)

// New returns the window detector for the current platform. It fails when
// no back end can run in this session.
func New() (window.Detector, error) {
	return newPlatformDetector()
}

func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}
