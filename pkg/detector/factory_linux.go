//go:build linux

package detector

import (
	"github.com/actionsum/usagetrack/pkg/integrations/hybrid"
	"github.com/actionsum/usagetrack/pkg/integrations/wayland"
	"github.com/actionsum/usagetrack/pkg/integrations/x11"
	"github.com/actionsum/usagetrack/pkg/window"
)

// newPlatformDetector prefers the compositor in Wayland sessions and keeps
// X11 as a fallback for XWayland clients.
func newPlatformDetector() (window.Detector, error) {
	if DetectDisplayServer() == "wayland" {
		return hybrid.NewDetector(wayland.NewDetector(), x11.NewDetector())
	}
	return hybrid.NewDetector(x11.NewDetector(), wayland.NewDetector())
}
