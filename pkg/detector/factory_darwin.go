//go:build darwin

package detector

import (
	"github.com/actionsum/usagetrack/pkg/integrations/darwin"
	"github.com/actionsum/usagetrack/pkg/integrations/hybrid"
	"github.com/actionsum/usagetrack/pkg/window"
)

func newPlatformDetector() (window.Detector, error) {
	return hybrid.NewDetector(darwin.NewDetector())
}
