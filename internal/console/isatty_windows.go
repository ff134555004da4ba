//go:build windows

package console

import "golang.org/x/sys/windows"

// isatty returns true if the given handle is a console
func isatty(fd uintptr) bool {
	var mode uint32
	return windows.GetConsoleMode(windows.Handle(fd), &mode) == nil
}
