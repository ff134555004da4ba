//go:build !linux && !darwin && !windows

package detector

import (
	"github.com/actionsum/usagetrack/pkg/integrations/hybrid"
	"github.com/actionsum/usagetrack/pkg/integrations/x11"
	"github.com/actionsum/usagetrack/pkg/window"
)

// newPlatformDetector falls back to X11, which is all the BSDs offer.
func newPlatformDetector() (window.Detector, error) {
	return hybrid.NewDetector(x11.NewDetector())
}
