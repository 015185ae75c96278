//go:build profile && windows

package profiler

import "syscall"

// viewerAttr hides the console window of the viewer process.
func viewerAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{HideWindow: true}
}
