package pnp

import (
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
)

// PnputilExporter exports driver packages by shelling out to
// `pnputil /export-driver <inf> <dir>`.
type PnputilExporter struct{}

// NewPnputilExporter creates the real export primitive.
func NewPnputilExporter() *PnputilExporter {
	return &PnputilExporter{}
}

// Export copies the definition file and its dependent files into destDir and
// returns the number of files written. Failures come back as *ExportError
// with a classified kind.
func (e *PnputilExporter) Export(infName, destDir string) (int, error) {
	cmd := exec.Command("pnputil", "/export-driver", infName, destDir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return 0, &ExportError{
			Kind:    classifyFailure(string(output), exitCode),
			Inf:     infName,
			Message: strings.TrimSpace(string(output)),
			Err:     err,
		}
	}

	count, err := countExportedFiles(destDir)
	if err != nil {
		// The export itself succeeded; an unreadable destination still counts
		// as success with an unknown file total.
		return 0, nil
	}
	return count, nil
}

// classifyFailure maps pnputil output and exit codes onto the failure
// taxonomy. Exit code 87 is ERROR_INVALID_PARAMETER, which pnputil reports
// for over-long or malformed destination paths.
func classifyFailure(output string, exitCode int) FailureKind {
	lower := strings.ToLower(output)
	switch {
	case strings.Contains(lower, "access") && strings.Contains(lower, "denied"):
		return FailurePermissionDenied
	case strings.Contains(lower, "denied"):
		return FailurePermissionDenied
	case strings.Contains(lower, "not found"), strings.Contains(lower, "cannot find"):
		return FailureNotFound
	case strings.Contains(lower, "missing or invalid target directory"), exitCode == 87:
		return FailurePathTooLong
	default:
		return FailureOther
	}
}

// countExportedFiles walks the destination directory and counts regular
// files. pnputil does not report a file total itself.
func countExportedFiles(destDir string) (int, error) {
	count := 0
	err := filepath.WalkDir(destDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count exported files in %s: %w", destDir, err)
	}
	return count, nil
}
