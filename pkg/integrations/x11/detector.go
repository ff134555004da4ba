package x11

import (
	"context"
	"encoding/binary"
	"os"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"

	"github.com/actionsum/usagetrack/pkg/integrations/process"
	"github.com/actionsum/usagetrack/pkg/window"
)

// maxPropertyLength is in 32-bit units, as GetProperty expects.
const maxPropertyLength = 1024

var atomNames = []string{
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_NAME",
	"_NET_WM_PID",
	"WM_NAME",
	"WM_CLASS",
	"UTF8_STRING",
}

// Detector implements window.Detector for X11 using the core protocol.
// Every query opens its own connection and closes it before returning.
type Detector struct {
	display string
	procs   *process.Table
}

// NewDetector creates a detector for the display named by $DISPLAY.
func NewDetector() *Detector {
	return &Detector{
		display: os.Getenv("DISPLAY"),
		procs:   process.NewTable(),
	}
}

// IsAvailable reports whether an X display is configured.
func (d *Detector) IsAvailable() bool {
	return d.display != ""
}

// GetDisplayServer returns "x11"
func (d *Detector) GetDisplayServer() string {
	return "x11"
}

// GetFocusedWindow returns information about the currently focused window
func (d *Detector) GetFocusedWindow(ctx context.Context) (*window.WindowInfo, error) {
	if !d.IsAvailable() {
		return nil, errors.New("x11: DISPLAY is not set")
	}

	c, err := dial(d.display)
	if err != nil {
		return nil, err
	}
	defer c.close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	win := c.activeWindow()
	if win == 0 {
		return nil, errors.Wrap(window.ErrNoFocusedWindow, "x11")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info := &window.WindowInfo{
		PID:           int(c.windowPID(win)),
		WindowTitle:   c.windowName(win),
		DisplayServer: "x11",
	}

	if info.PID > 0 {
		if name, err := d.procs.NameByPID(info.PID); err == nil {
			info.ProcessName = name
			info.AppName = name
		}
	}
	if info.AppName == "" {
		instance, class := c.windowClass(win)
		if class != "" {
			info.AppName = class
		} else {
			info.AppName = instance
		}
	}

	return info, nil
}

// Close cleans up resources
func (d *Detector) Close() error {
	return nil
}

type client struct {
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

func dial(display string) (*client, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, errors.Wrapf(err, "x11: connect to %s", display)
	}

	c := &client{
		conn:  conn,
		root:  xproto.Setup(conn).DefaultScreen(conn).Root,
		atoms: make(map[string]xproto.Atom, len(atomNames)),
	}

	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "x11: intern atom %s", name)
		}
		c.atoms[name] = reply.Atom
	}

	return c, nil
}

func (c *client) close() {
	c.conn.Close()
}

func (c *client) property(win xproto.Window, atom, typ xproto.Atom) ([]byte, error) {
	reply, err := xproto.GetProperty(c.conn, false, win, atom, typ, 0, maxPropertyLength).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

// activeWindow prefers the EWMH active window and falls back to the input
// focus walked up to its top-level frame. It returns 0 when nothing is focused.
func (c *client) activeWindow() xproto.Window {
	if data, err := c.property(c.root, c.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow); err == nil {
		if id, ok := decodeCardinal(data); ok && id != 0 {
			return xproto.Window(id)
		}
	}

	reply, err := xproto.GetInputFocus(c.conn).Reply()
	if err != nil {
		return 0
	}
	// PointerRoot (1) and None (0) mean no client window holds focus.
	if reply.Focus <= 1 || reply.Focus == c.root {
		return 0
	}
	return c.topLevel(reply.Focus)
}

func (c *client) topLevel(win xproto.Window) xproto.Window {
	for {
		reply, err := xproto.QueryTree(c.conn, win).Reply()
		if err != nil || reply.Parent == c.root || reply.Parent == 0 {
			return win
		}
		win = reply.Parent
	}
}

func (c *client) windowName(win xproto.Window) string {
	if data, err := c.property(win, c.atoms["_NET_WM_NAME"], c.atoms["UTF8_STRING"]); err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}
	if data, err := c.property(win, c.atoms["WM_NAME"], xproto.AtomString); err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}
	return ""
}

func (c *client) windowClass(win xproto.Window) (instance, class string) {
	data, err := c.property(win, c.atoms["WM_CLASS"], xproto.AtomString)
	if err != nil {
		return "", ""
	}
	return decodeWindowClass(data)
}

func (c *client) windowPID(win xproto.Window) uint32 {
	data, err := c.property(win, c.atoms["_NET_WM_PID"], xproto.AtomCardinal)
	if err != nil {
		return 0
	}
	pid, _ := decodeCardinal(data)
	return pid
}

// decodeWindowClass splits a WM_CLASS value into its instance and class
// parts. The value is two NUL-terminated strings.
func decodeWindowClass(data []byte) (instance, class string) {
	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(parts) >= 1 {
		instance = parts[0]
	}
	if len(parts) >= 2 {
		class = parts[1]
	}
	return instance, class
}

// decodeCardinal reads the first 32-bit value of a property reply.
func decodeCardinal(data []byte) (uint32, bool) {
	if len(data) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(data), true
}
