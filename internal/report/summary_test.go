package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/driverkeep/internal/backup"
)

func summarySession() *backup.BackupSession {
	gpu := backup.DriverRecord{
		DeviceName: "NVIDIA GeForce RTX 3080", Provider: "NVIDIA", Version: "31.0.15.3623",
		Date: "2023-01-15", Class: "Display", InfName: "oem42.inf",
		HardwareID: `PCI\VEN_10DE`, DeviceID: `PCI\VEN_10DE\1`, Description: "GPU",
	}
	gpu2 := gpu
	gpu2.DeviceName = "NVIDIA GeForce RTX 3070"
	nic := backup.DriverRecord{
		DeviceName: "Intel NIC", Provider: "Intel", Version: "1.0",
		Date: "2022-06-01", Class: "Net", InfName: "oem7.inf",
		HardwareID: `PCI\VEN_8086`, DeviceID: `PCI\VEN_8086\1`, Description: "Ethernet",
	}

	session := &backup.BackupSession{
		StartedAt: time.Date(2023, 1, 15, 9, 30, 0, 0, time.UTC),
		Results: []*backup.PackageResult{
			{
				Package:        &backup.DriverPackage{Class: "Net", InfName: "oem7.inf", Records: []backup.DriverRecord{nic}},
				ClassSegment:   "Net",
				PackageSegment: "Intel NIC_1.0 Package",
				Outcome:        backup.ExportOutcome{Kind: backup.OutcomeSuccess, FileCount: 2},
			},
			{
				Package:        &backup.DriverPackage{Class: "Display", InfName: "oem42.inf", Records: []backup.DriverRecord{gpu, gpu2}},
				ClassSegment:   "Display",
				PackageSegment: "NVIDIA GeForce RTX 3080_31.0.15.3623 Package",
				Outcome:        backup.ExportOutcome{Kind: backup.OutcomeSuccess, FileCount: 40},
			},
		},
	}
	session.Counters.RecordsSeen = 5
	session.Counters.RecordsExcluded = 2
	session.Counters.Packages = 2
	session.Counters.Exported = 2
	return session
}

func TestWriteSummarySections(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, summarySession()); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Generated: 2023-01-15 09:30:00 UTC") {
		t.Error("missing generation timestamp")
	}
	if !strings.Contains(out, "Records seen: 5 (excluded OS-vendor: 2, rejected: 0)") {
		t.Error("missing record counters")
	}
	if !strings.Contains(out, "Driver packages: 2 (exported: 2, skipped: 0, failed: 0)") {
		t.Error("missing package counters")
	}

	// Sections are ordered by class segment, not by session order.
	display := strings.Index(out, "=== Display (1 packages) ===")
	net := strings.Index(out, "=== Net (1 packages) ===")
	if display == -1 || net == -1 {
		t.Fatalf("missing class sections:\n%s", out)
	}
	if display > net {
		t.Error("class sections not in lexicographic order")
	}

	if !strings.Contains(out, "Folder: Display/NVIDIA GeForce RTX 3080_31.0.15.3623 Package") {
		t.Error("missing package folder line")
	}
	if !strings.Contains(out, "Status: exported (40 files)") {
		t.Error("missing package status line")
	}
}

func TestWriteSummaryDeviceSequence(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, summarySession()); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	out := buf.String()

	// One run-wide sequence across all sections: Display's two devices come
	// first (lexicographic section order), then Net's one.
	for _, line := range []string{
		"1. NVIDIA GeForce RTX 3080",
		"2. NVIDIA GeForce RTX 3070",
		"3. Intel NIC",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("missing sequenced device line %q", line)
		}
	}
	if strings.Contains(out, "   4. ") {
		t.Error("sequence ran past the device count")
	}
}
