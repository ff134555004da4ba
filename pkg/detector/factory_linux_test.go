//go:build linux

package detector

import "testing"

func TestNewWithoutDisplay(t *testing.T) {
	for _, key := range []string{
		"XDG_SESSION_TYPE", "WAYLAND_DISPLAY", "DISPLAY",
		"SWAYSOCK", "HYPRLAND_INSTANCE_SIGNATURE", "XDG_CURRENT_DESKTOP",
	} {
		t.Setenv(key, "")
	}

	if d, err := New(); err == nil {
		d.Close()
		t.Error("New() error = nil without any display session")
	}
}
