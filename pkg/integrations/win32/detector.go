//go:build windows

// Package win32 queries the foreground window through user32 and resolves
// the owning process from a toolhelp snapshot.
package win32

import (
	"context"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/actionsum/usagetrack/pkg/window"
)

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
)

// Detector implements window.Detector for Windows.
type Detector struct{}

func NewDetector() *Detector {
	return &Detector{}
}

func (d *Detector) IsAvailable() bool {
	return user32.Load() == nil
}

func (d *Detector) GetDisplayServer() string {
	return "windows"
}

func (d *Detector) GetFocusedWindow(ctx context.Context) (*window.WindowInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hwnd := windows.GetForegroundWindow()
	if hwnd == 0 {
		return nil, errors.Wrap(window.ErrNoFocusedWindow, "win32")
	}

	info := &window.WindowInfo{DisplayServer: "windows"}

	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err == nil && pid != 0 {
		info.PID = int(pid)
	}

	// GetWindowTextW sends WM_GETTEXT and can block on a hung window.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info.WindowTitle = windowText(hwnd)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if info.PID != 0 {
		if name, err := processName(uint32(info.PID)); err == nil {
			info.ProcessName = name
			info.AppName = name
		}
	}
	return info, nil
}

func (d *Detector) Close() error {
	return nil
}

func windowText(hwnd windows.HWND) string {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(hwnd))
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	copied, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if copied == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:copied])
}

// processName walks a process snapshot for pid's executable name. The
// snapshot handle is closed before returning.
func processName(pid uint32) (string, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return "", errors.Wrap(err, "win32: process snapshot")
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	for err = windows.Process32First(snap, &entry); err == nil; err = windows.Process32Next(snap, &entry) {
		if entry.ProcessID == pid {
			return windows.UTF16ToString(entry.ExeFile[:]), nil
		}
	}
	return "", errors.Errorf("win32: process %d not in snapshot", pid)
}
