package pnp

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// CheckElevated verifies the process holds the privilege pnputil needs by
// write-probing the system temp directory. Driver export fails with opaque
// errors when run unelevated, so the check runs up front.
func CheckElevated() error {
	dir := os.Getenv("WINDIR")
	if dir == "" {
		// Not on Windows (tests, cross-platform builds): nothing to probe.
		return nil
	}

	probe := filepath.Join(dir, "Temp", "driverkeep_elevation_probe")
	if err := os.WriteFile(probe, []byte("probe"), 0644); err != nil {
		return fmt.Errorf("administrative privileges are required to export drivers; run elevated: %w", err)
	}
	os.Remove(probe)
	return nil
}

// CommandAvailable reports whether an external command can be resolved on
// PATH. Used by doctor to diagnose missing collaborators before a run fails.
func CommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
