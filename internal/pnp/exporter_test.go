package pnp

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func mustWrite(t *testing.T, dir, rel string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		exitCode int
		want     FailureKind
	}{
		{"access denied", "Access is denied.", 5, FailurePermissionDenied},
		{"denied casefolded", "ACCESS DENIED", 5, FailurePermissionDenied},
		{"not found", "The driver package was not found on the system.", 3, FailureNotFound},
		{"cannot find", "The system cannot find the file specified.", 2, FailureNotFound},
		{"target directory", "Missing or invalid target directory.", 1, FailurePathTooLong},
		{"exit 87", "Unexpected failure.", 87, FailurePathTooLong},
		{"unclassified", "Something unexpected happened.", 1, FailureOther},
		{"empty output", "", 1, FailureOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyFailure(tt.output, tt.exitCode); got != tt.want {
				t.Errorf("classifyFailure(%q, %d) = %v, want %v", tt.output, tt.exitCode, got, tt.want)
			}
		})
	}
}

func TestFailureKindString(t *testing.T) {
	tests := []struct {
		kind FailureKind
		want string
	}{
		{FailurePermissionDenied, "permission denied"},
		{FailureNotFound, "not found"},
		{FailurePathTooLong, "path too long"},
		{FailureOther, "export error"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestExportErrorMessage(t *testing.T) {
	err := &ExportError{Kind: FailureNotFound, Inf: "oem42.inf", Message: "Element not found."}
	if got := err.Error(); got != "export oem42.inf: Element not found." {
		t.Errorf("Error() = %q", got)
	}

	bare := &ExportError{Kind: FailurePathTooLong, Inf: "oem7.inf"}
	if got := bare.Error(); got != "export oem7.inf: path too long" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := errors.New("exit status 5")
	withErr := &ExportError{Kind: FailureOther, Inf: "oem1.inf", Err: wrapped}
	if !errors.Is(withErr, wrapped) {
		t.Error("ExportError does not unwrap to its cause")
	}
}

func TestCountExportedFiles(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, dir, "oem42.inf")
	mustWrite(t, dir, "driver.sys")
	mustWrite(t, dir, "sub/firmware.bin")

	count, err := countExportedFiles(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}
