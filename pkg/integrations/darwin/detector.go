// Package darwin queries the frontmost application on macOS through
// System Events.
package darwin

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/actionsum/usagetrack/pkg/integrations/common"
	"github.com/actionsum/usagetrack/pkg/window"
)

// frontmostScript prints "name<TAB>pid<TAB>title". The title is empty when
// the app has no front window or accessibility access is denied.
const frontmostScript = `
tell application "System Events"
	set frontApp to first application process whose frontmost is true
	set appName to name of frontApp
	set appPID to unix id of frontApp
	set windowTitle to ""
	try
		tell frontApp
			set windowTitle to name of front window
		end tell
	end try
	return appName & tab & appPID & tab & windowTitle
end tell
`

// Detector implements window.Detector for macOS.
type Detector struct {
	run      common.Runner
	lookPath func(string) bool
}

func NewDetector() *Detector {
	return &Detector{run: common.ExecRunner, lookPath: common.HasCommand}
}

func (d *Detector) IsAvailable() bool {
	return d.lookPath("osascript")
}

func (d *Detector) GetDisplayServer() string {
	return "darwin"
}

func (d *Detector) GetFocusedWindow(ctx context.Context) (*window.WindowInfo, error) {
	out, err := d.run(ctx, "osascript", "-e", frontmostScript)
	if err != nil {
		return nil, errors.Wrap(err, "darwin: query frontmost app")
	}
	info, err := parseFrontmost(string(out))
	if err != nil {
		return nil, err
	}
	info.DisplayServer = "darwin"
	return info, nil
}

func (d *Detector) Close() error {
	return nil
}

func parseFrontmost(out string) (*window.WindowInfo, error) {
	out = strings.TrimRight(out, "\r\n")
	if strings.TrimSpace(out) == "" {
		return nil, errors.Wrap(window.ErrNoFocusedWindow, "darwin")
	}

	parts := strings.SplitN(out, "\t", 3)
	info := &window.WindowInfo{AppName: parts[0], ProcessName: parts[0]}
	if len(parts) > 1 {
		pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, errors.Wrapf(err, "darwin: parse pid %q", parts[1])
		}
		info.PID = pid
	}
	if len(parts) > 2 {
		info.WindowTitle = parts[2]
	}
	return info, nil
}
