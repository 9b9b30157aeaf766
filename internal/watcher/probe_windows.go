//go:build windows

package watcher

import "os"

// processAlive reports whether a process with the given PID exists. On
// Windows, FindProcess opens a real process handle, so success is liveness.
// Signal(0) is not an option here: delivering any signal but Kill is
// unsupported.
func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	process.Release()
	return true
}
