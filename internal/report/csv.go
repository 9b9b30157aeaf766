// Package report emits the machine-readable and human-readable inventories
// for one backup session: a driver_info.csv per package directory, a master
// all_drivers.csv, and a grouped text summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/driverkeep/internal/backup"
)

// On-disk names within the session root.
const (
	PackageCSVName = "driver_info.csv"
	MasterCSVName  = "all_drivers.csv"
	SummaryName    = "driver_backup_summary.txt"
)

// csvHeader is the fixed column order shared by both inventories. The master
// file appends a Folder Name column.
var csvHeader = []string{
	"Device Name", "Driver Version", "Driver Date", "Hardware ID", "Device ID",
	"INF Name", "Description", "Provider", "Device Class", "Class GUID",
}

func recordRow(r backup.DriverRecord) []string {
	return []string{
		r.DeviceName, r.Version, r.Date, r.HardwareID, r.DeviceID,
		r.InfName, r.Description, r.Provider, r.Class, r.ClassGUID,
	}
}

// WritePackageCSV writes the per-package inventory: one row per member
// record. encoding/csv quotes any field containing a comma, quote, or
// newline, so every value round-trips losslessly.
func WritePackageCSV(w io.Writer, records []backup.DriverRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(recordRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMasterCSV writes the run-wide inventory: one row per member record
// across all packages, with the package's relative folder path appended so a
// record can be traced back to its export location.
func WriteMasterCSV(w io.Writer, results []*backup.PackageResult) error {
	cw := csv.NewWriter(w)
	header := append(append([]string{}, csvHeader...), "Folder Name")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, res := range results {
		for _, r := range res.Package.Records {
			row := append(recordRow(r), res.FolderName())
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSessionReports writes every report file for a live session: a
// driver_info.csv inside each package directory that exists on disk, plus the
// master CSV and text summary at the session root.
func WriteSessionReports(session *backup.BackupSession) error {
	for _, res := range session.Results {
		if !res.DirCreated {
			// No directory on disk: the package was skipped, or directory
			// creation itself failed. It still appears in the master inventory
			// and summary.
			continue
		}
		dir := filepath.Join(session.OutputRoot, res.ClassSegment, res.PackageSegment)
		if err := writeFileReport(filepath.Join(dir, PackageCSVName), func(w io.Writer) error {
			return WritePackageCSV(w, res.Package.Records)
		}); err != nil {
			return fmt.Errorf("failed to write package inventory for %s: %w", res.FolderName(), err)
		}
	}

	if err := writeFileReport(filepath.Join(session.OutputRoot, MasterCSVName), func(w io.Writer) error {
		return WriteMasterCSV(w, session.Results)
	}); err != nil {
		return fmt.Errorf("failed to write master inventory: %w", err)
	}

	if err := writeFileReport(filepath.Join(session.OutputRoot, SummaryName), func(w io.Writer) error {
		return WriteSummary(w, session)
	}); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	return nil
}

func writeFileReport(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
