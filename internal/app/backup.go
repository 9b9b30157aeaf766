package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/driverkeep/internal/backup"
	"github.com/blackwell-systems/driverkeep/internal/output"
	"github.com/blackwell-systems/driverkeep/internal/pnp"
	"github.com/blackwell-systems/driverkeep/internal/report"
	"github.com/blackwell-systems/driverkeep/internal/store"
)

var (
	backupOutput  string
	backupVerbose bool
	backupDryRun  bool

	backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Export third-party driver packages to disk",
		Long: `Discover installed third-party drivers, deduplicate them into packages
(one per definition file per device class), and export each package exactly
once into a timestamped directory tree:

  <output>/drivers_<timestamp>/<class>/<device>_<version> Package/

Each package directory receives the exported driver files plus a
driver_info.csv inventory. The session root receives all_drivers.csv and
driver_backup_summary.txt covering every package, including skipped and
failed ones.

Individual package failures are reported and counted but never abort the
run. The command requires elevation for live runs; use --dry-run to preview
the full folder plan without touching the driver store or the output
directory.`,
		Example: `  # Back up to .\driver_backup
  driverkeep backup

  # Back up to a specific directory with per-package detail
  driverkeep backup --output D:\DriverBackup --verbose

  # Preview the plan without writing anything
  driverkeep backup --dry-run`,
		RunE: runBackup,
	}
)

func init() {
	backupCmd.Flags().StringVarP(&backupOutput, "output", "o", "driver_backup", "output directory")
	backupCmd.Flags().BoolVarP(&backupVerbose, "verbose", "v", false, "per-package detail during the run")
	backupCmd.Flags().BoolVar(&backupDryRun, "dry-run", false, "plan folders and outcomes without exporting")

	RootCmd.AddCommand(backupCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	startedAt := time.Now()
	isTTY := isatty.IsTerminal(os.Stdout.Fd())

	// Fatal preconditions first: elevation and a writable output root. Both
	// are skipped for dry runs, which must not touch the filesystem.
	if !backupDryRun {
		if err := pnp.CheckElevated(); err != nil {
			return err
		}
		if err := validateOutputDir(backupOutput); err != nil {
			return err
		}
	}

	session, _, err := planSession(backupOutput, startedAt, backupDryRun, isTTY)
	if err != nil {
		return err
	}

	if session.Counters.Packages == 0 {
		fmt.Println("No third-party driver packages found to export.")
		return nil
	}

	if !backupDryRun {
		if err := os.MkdirAll(session.OutputRoot, 0755); err != nil {
			return fmt.Errorf("failed to create backup directory %s: %w", session.OutputRoot, err)
		}
	}

	orch := backup.NewOrchestrator(pnp.NewPnputilExporter())
	var bar *output.ProgressBar
	switch {
	case backupVerbose:
		orch.SetVerbose(os.Stdout)
	case isTTY:
		bar = output.NewProgress(session.Counters.Packages, "Exporting driver packages...")
		orch.OnPackage = func(*backup.PackageResult) { bar.Increment() }
	}

	orch.Run(session)
	if bar != nil {
		bar.Finish()
	}

	if backupDryRun {
		fmt.Println("Dry run: no files were written. Planned packages:")
		fmt.Println()
		fmt.Print(output.RenderPlanTable(session.Results))
	} else {
		if err := report.WriteSessionReports(session); err != nil {
			return err
		}
		for _, res := range session.Results {
			if res.Outcome.Kind != backup.OutcomeSuccess || backupVerbose {
				fmt.Println(output.RenderOutcomeLine(res))
			}
		}
	}

	recordSession(session)

	fmt.Println()
	fmt.Println("Driver backup process completed!")
	fmt.Printf("Records seen: %d (excluded OS-vendor: %d, rejected: %d)\n",
		session.Counters.RecordsSeen, session.Counters.RecordsExcluded, session.Counters.RecordsRejected)
	fmt.Printf("Successfully exported: %d driver packages\n", session.Counters.Exported)
	if session.Counters.Skipped > 0 {
		fmt.Printf("Skipped: %d driver packages\n", session.Counters.Skipped)
	}
	if session.Counters.Failed > 0 {
		fmt.Printf("Failed to export: %d driver packages\n", session.Counters.Failed)
	}
	if !backupDryRun {
		fmt.Printf("Backup location: %s\n", session.OutputRoot)
	}

	return nil
}

// planSession runs the pure phase of the pipeline: enumerate, normalize,
// group, and wrap into a session. Shared by backup and list so the preview
// and the live run always agree.
func planSession(outputDir string, startedAt time.Time, dryRun, isTTY bool) (*backup.BackupSession, []backup.DriverRecord, error) {
	var spinner *output.Spinner
	if isTTY {
		spinner = output.NewSpinner("Querying device database...")
		spinner.Start()
	}

	raws, err := pnp.Enumerate()
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, nil, err
	}

	normalizer := backup.NewNormalizer(loadExtraVendors())
	records, stats := normalizer.NormalizeAll(raws)
	buckets := backup.Group(records)

	root := filepath.Join(outputDir, "drivers_"+startedAt.UTC().Format("20060102_150405"))
	session := backup.NewSession(root, startedAt, dryRun, buckets, stats)
	return session, records, nil
}

// validateOutputDir ensures the output root exists (creating it if needed)
// and is writable. An unwritable root is fatal before any export starts.
func validateOutputDir(dir string) error {
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return fmt.Errorf("output path exists but is not a directory: %s", dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".driverkeep_write_test")
	if err := os.WriteFile(probe, []byte("probe"), 0644); err != nil {
		return fmt.Errorf("cannot write to output directory %s: %w", dir, err)
	}
	os.Remove(probe)

	return nil
}

// recordSession persists the run into the history database. History is
// best-effort: a broken database must not fail a completed backup.
func recordSession(session *backup.BackupSession) {
	path, err := getDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record session history: %v\n", err)
		return
	}

	db, err := store.New(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record session history: %v\n", err)
		return
	}
	defer db.Close()

	sessionID, err := db.InsertSession(&store.Session{
		StartedAt:       session.StartedAt,
		OutputRoot:      session.OutputRoot,
		DryRun:          session.DryRun,
		RecordsSeen:     session.Counters.RecordsSeen,
		RecordsExcluded: session.Counters.RecordsExcluded,
		RecordsRejected: session.Counters.RecordsRejected,
		Packages:        session.Counters.Packages,
		Exported:        session.Counters.Exported,
		Skipped:         session.Counters.Skipped,
		Failed:          session.Counters.Failed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record session history: %v\n", err)
		return
	}

	for _, res := range session.Results {
		pkg := &store.SessionPackage{
			SessionID:   sessionID,
			DeviceClass: res.Package.Class,
			InfName:     res.Package.InfName,
			Folder:      res.FolderName(),
			DeviceCount: len(res.Package.Records),
			Outcome:     res.Outcome.Kind.String(),
			FileCount:   res.Outcome.FileCount,
		}
		switch res.Outcome.Kind {
		case backup.OutcomeSkipped:
			pkg.Detail = res.Outcome.Reason
		case backup.OutcomeFailed:
			pkg.Detail = res.Outcome.Detail
		}
		if err := db.InsertSessionPackage(pkg); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not record package outcome: %v\n", err)
			return
		}
	}
}
