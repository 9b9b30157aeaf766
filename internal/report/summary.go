package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/blackwell-systems/driverkeep/internal/backup"
)

// WriteSummary writes the grouped text summary: sections ordered by class
// segment, packages in session order within each section, and a single
// run-wide sequence number stamped on every device record in the order it is
// written.
func WriteSummary(w io.Writer, session *backup.BackupSession) error {
	var sb strings.Builder

	sb.WriteString("Driver Export Summary\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n", session.StartedAt.UTC().Format("2006-01-02 15:04:05 UTC")))
	sb.WriteString(fmt.Sprintf("Records seen: %d (excluded OS-vendor: %d, rejected: %d)\n",
		session.Counters.RecordsSeen, session.Counters.RecordsExcluded, session.Counters.RecordsRejected))
	sb.WriteString(fmt.Sprintf("Driver packages: %d (exported: %d, skipped: %d, failed: %d)\n\n",
		session.Counters.Packages, session.Counters.Exported, session.Counters.Skipped, session.Counters.Failed))

	sb.WriteString("Drivers by Device Class and Package:\n")
	sb.WriteString("=====================================\n\n")

	// Session order already groups results by class; sections are keyed by the
	// resolved class segment and emitted lexicographically.
	byClass := make(map[string][]*backup.PackageResult)
	for _, res := range session.Results {
		byClass[res.ClassSegment] = append(byClass[res.ClassSegment], res)
	}
	segments := make([]string, 0, len(byClass))
	for seg := range byClass {
		segments = append(segments, seg)
	}
	sort.Strings(segments)

	sequence := 1
	for _, seg := range segments {
		results := byClass[seg]
		sb.WriteString(fmt.Sprintf("=== %s (%d packages) ===\n\n", seg, len(results)))

		for _, res := range results {
			pkg := res.Package
			primary := pkg.Primary()

			sb.WriteString(fmt.Sprintf("%s (%d devices in package):\n", pkg.InfName, len(pkg.Records)))
			sb.WriteString(fmt.Sprintf("   Folder: %s\n", res.FolderName()))
			sb.WriteString(fmt.Sprintf("   Provider: %s\n", primary.Provider))
			sb.WriteString(fmt.Sprintf("   Version: %s\n", primary.Version))
			sb.WriteString(fmt.Sprintf("   Date: %s\n", primary.Date))
			sb.WriteString(fmt.Sprintf("   Status: %s\n", backup.DescribeOutcome(res.Outcome)))

			sb.WriteString("\n   Devices in this package:\n")
			for _, rec := range pkg.Records {
				sb.WriteString(fmt.Sprintf("   %d. %s\n", sequence, rec.DeviceName))
				sb.WriteString(fmt.Sprintf("      Hardware ID: %s\n", rec.HardwareID))
				sb.WriteString(fmt.Sprintf("      Device ID: %s\n", rec.DeviceID))
				sb.WriteString(fmt.Sprintf("      Description: %s\n", rec.Description))
				sequence++
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
