//go:build windows

package detector

import (
	"github.com/actionsum/usagetrack/pkg/integrations/hybrid"
	"github.com/actionsum/usagetrack/pkg/integrations/win32"
	"github.com/actionsum/usagetrack/pkg/window"
)

func newPlatformDetector() (window.Detector, error) {
	return hybrid.NewDetector(win32.NewDetector())
}
