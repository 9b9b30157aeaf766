//go:build !windows

package watcher

import (
	"os"
	"syscall"
)

// processAlive reports whether a process with the given PID exists. Signal 0
// probes existence without delivering anything; FindProcess always succeeds
// on unix, so only the signal result matters.
func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
