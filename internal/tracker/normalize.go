package tracker

import (
	"strings"

	"github.com/actionsum/usagetrack/internal/models"
	"github.com/actionsum/usagetrack/pkg/window"
)

// Placeholders stored in place of data the platform could not provide.
const (
	UnknownApp = "(unknown)"
	NoTitle    = "(no title)"
)

// FromWindowInfo converts a detector result into a raw snapshot. Any error or
// a nil info means no foreground window could be determined.
func FromWindowInfo(info *window.WindowInfo, err error) models.Snapshot {
	if err != nil || info == nil {
		return models.Snapshot{}
	}

	appName := info.AppName
	if strings.TrimSpace(appName) == "" {
		appName = info.ProcessName
	}

	return models.Snapshot{
		Valid:       true,
		ProcessID:   info.PID,
		AppName:     appName,
		WindowTitle: info.WindowTitle,
	}
}

// Normalize substitutes placeholders for a missing app name or title.
// Process ID 0 is kept as is and takes part in identity comparison.
func Normalize(s models.Snapshot) models.Snapshot {
	if !s.Valid {
		return models.Snapshot{}
	}
	if strings.TrimSpace(s.AppName) == "" {
		s.AppName = UnknownApp
	}
	if strings.TrimSpace(s.WindowTitle) == "" {
		s.WindowTitle = NoTitle
	}
	return s
}
