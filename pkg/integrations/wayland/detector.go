package wayland

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"

	"github.com/actionsum/usagetrack/pkg/integrations/common"
	"github.com/actionsum/usagetrack/pkg/integrations/process"
	"github.com/actionsum/usagetrack/pkg/window"
)

// Compositor identifies the Wayland compositor a detector talks to.
type Compositor string

const (
	CompositorGNOME    Compositor = "gnome"
	CompositorSway     Compositor = "sway"
	CompositorHyprland Compositor = "hyprland"
	CompositorUnknown  Compositor = "unknown"
)

const gnomeFocusScript = `
	let fw = global.display.get_focus_window();
	fw ? JSON.stringify({
		wm_class: fw.get_wm_class() || '',
		title: fw.get_title() || '',
		pid: fw.get_pid() || 0
	}) : 'null';
`

// Detector implements window.Detector for Wayland compositors that expose
// the focused window: GNOME Shell over D-Bus, sway and Hyprland through
// their IPC tools.
type Detector struct {
	compositor Compositor
	hasDisplay bool
	run        common.Runner
	eval       func(ctx context.Context, script string) (string, error)
	lookPath   func(string) bool
	procs      *process.Table
}

// NewDetector creates a detector for the compositor of the current session.
func NewDetector() *Detector {
	return newDetector(os.Getenv, common.ExecRunner)
}

func newDetector(getenv func(string) string, run common.Runner) *Detector {
	return &Detector{
		compositor: detectCompositor(getenv),
		hasDisplay: getenv("WAYLAND_DISPLAY") != "",
		run:        run,
		eval:       gnomeEval,
		lookPath:   common.HasCommand,
		procs:      process.NewTable(),
	}
}

// detectCompositor identifies the compositor from session variables.
func detectCompositor(getenv func(string) string) Compositor {
	if getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return CompositorHyprland
	}
	if getenv("SWAYSOCK") != "" {
		return CompositorSway
	}

	desktop := strings.ToLower(getenv("XDG_CURRENT_DESKTOP"))
	switch {
	case strings.Contains(desktop, "gnome"), strings.Contains(desktop, "ubuntu"):
		return CompositorGNOME
	case strings.Contains(desktop, "hyprland"):
		return CompositorHyprland
	case strings.Contains(desktop, "sway"):
		return CompositorSway
	}
	return CompositorUnknown
}

// Compositor returns the detected compositor.
func (d *Detector) Compositor() Compositor {
	return d.compositor
}

// IsAvailable checks if Wayland detection is available
func (d *Detector) IsAvailable() bool {
	if !d.hasDisplay {
		return false
	}
	switch d.compositor {
	case CompositorSway:
		return d.lookPath("swaymsg")
	case CompositorHyprland:
		return d.lookPath("hyprctl")
	case CompositorGNOME:
		return true
	default:
		return false
	}
}

// GetDisplayServer returns "wayland"
func (d *Detector) GetDisplayServer() string {
	return "wayland"
}

// GetFocusedWindow returns information about the currently focused window
func (d *Detector) GetFocusedWindow(ctx context.Context) (*window.WindowInfo, error) {
	var (
		info *window.WindowInfo
		err  error
	)

	switch d.compositor {
	case CompositorSway:
		info, err = d.focusedSway(ctx)
	case CompositorHyprland:
		info, err = d.focusedHyprland(ctx)
	case CompositorGNOME:
		info, err = d.focusedGNOME(ctx)
	default:
		return nil, errors.Errorf("unsupported wayland compositor: %s", d.compositor)
	}
	if err != nil {
		return nil, err
	}

	info.DisplayServer = "wayland"
	if info.PID > 0 {
		if name, err := d.procs.NameByPID(info.PID); err == nil {
			info.ProcessName = name
			info.AppName = name
		}
	}
	return info, nil
}

func (d *Detector) focusedSway(ctx context.Context) (*window.WindowInfo, error) {
	out, err := d.run(ctx, "swaymsg", "-t", "get_tree")
	if err != nil {
		return nil, errors.Wrap(err, "sway: get_tree")
	}
	return parseSwayTree(out)
}

func (d *Detector) focusedHyprland(ctx context.Context) (*window.WindowInfo, error) {
	out, err := d.run(ctx, "hyprctl", "activewindow", "-j")
	if err != nil {
		return nil, errors.Wrap(err, "hyprland: activewindow")
	}
	return parseHyprlandWindow(out)
}

func (d *Detector) focusedGNOME(ctx context.Context) (*window.WindowInfo, error) {
	out, err := d.eval(ctx, gnomeFocusScript)
	if err != nil {
		return nil, err
	}
	return parseGNOMEWindow(out)
}

// gnomeEval runs script in GNOME Shell. Newer shells refuse Eval unless
// unsafe mode is enabled; that surfaces as an error here.
func gnomeEval(ctx context.Context, script string) (string, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return "", errors.Wrap(err, "gnome: connect session bus")
	}
	defer conn.Close()

	var (
		ok  bool
		out string
	)
	call := conn.Object("org.gnome.Shell", "/org/gnome/Shell").
		CallWithContext(ctx, "org.gnome.Shell.Eval", 0, script)
	if err := call.Store(&ok, &out); err != nil {
		return "", errors.Wrap(err, "gnome: Shell.Eval")
	}
	if !ok {
		return "", errors.Errorf("gnome: Shell.Eval refused: %s", out)
	}
	return out, nil
}

type gnomeWindow struct {
	WMClass string `json:"wm_class"`
	Title   string `json:"title"`
	PID     int    `json:"pid"`
}

func parseGNOMEWindow(out string) (*window.WindowInfo, error) {
	out = strings.TrimSpace(out)
	if out == "" || out == "null" {
		return nil, errors.Wrap(window.ErrNoFocusedWindow, "gnome")
	}

	var w gnomeWindow
	if err := json.Unmarshal([]byte(out), &w); err != nil {
		return nil, errors.Wrap(err, "gnome: decode focus window")
	}
	return &window.WindowInfo{
		PID:         w.PID,
		AppName:     w.WMClass,
		WindowTitle: w.Title,
	}, nil
}

type swayNode struct {
	Type             string     `json:"type"`
	Focused          bool       `json:"focused"`
	Name             *string    `json:"name"`
	AppID            *string    `json:"app_id"`
	PID              int        `json:"pid"`
	WindowProperties *struct {
		Class string `json:"class"`
	} `json:"window_properties"`
	Nodes         []swayNode `json:"nodes"`
	FloatingNodes []swayNode `json:"floating_nodes"`
}

// parseSwayTree finds the focused view in swaymsg -t get_tree output.
// Focus on a workspace or output means no window is focused.
func parseSwayTree(out []byte) (*window.WindowInfo, error) {
	var root swayNode
	if err := json.Unmarshal(out, &root); err != nil {
		return nil, errors.Wrap(err, "sway: decode tree")
	}

	n := findFocused(&root)
	if n == nil || (n.Type != "con" && n.Type != "floating_con") {
		return nil, errors.Wrap(window.ErrNoFocusedWindow, "sway")
	}

	info := &window.WindowInfo{PID: n.PID}
	if n.Name != nil {
		info.WindowTitle = *n.Name
	}
	switch {
	case n.AppID != nil && *n.AppID != "":
		info.AppName = *n.AppID
	case n.WindowProperties != nil:
		info.AppName = n.WindowProperties.Class
	}
	return info, nil
}

func findFocused(n *swayNode) *swayNode {
	if n.Focused {
		return n
	}
	for i := range n.Nodes {
		if f := findFocused(&n.Nodes[i]); f != nil {
			return f
		}
	}
	for i := range n.FloatingNodes {
		if f := findFocused(&n.FloatingNodes[i]); f != nil {
			return f
		}
	}
	return nil
}

type hyprWindow struct {
	Address string `json:"address"`
	Class   string `json:"class"`
	Title   string `json:"title"`
	PID     int    `json:"pid"`
}

// parseHyprlandWindow decodes hyprctl activewindow -j. It prints {} when no
// window has focus.
func parseHyprlandWindow(out []byte) (*window.WindowInfo, error) {
	var w hyprWindow
	if err := json.Unmarshal(out, &w); err != nil {
		return nil, errors.Wrap(err, "hyprland: decode active window")
	}
	if w.Address == "" && w.PID == 0 && w.Class == "" && w.Title == "" {
		return nil, errors.Wrap(window.ErrNoFocusedWindow, "hyprland")
	}
	return &window.WindowInfo{
		PID:         w.PID,
		AppName:     w.Class,
		WindowTitle: w.Title,
	}, nil
}

// Close cleans up resources
func (d *Detector) Close() error {
	return nil
}
