//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !windows

package console

func isatty(uintptr) bool {
	return false
}
