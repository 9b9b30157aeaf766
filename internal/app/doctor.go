package app

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/driverkeep/internal/config"
	"github.com/blackwell-systems/driverkeep/internal/pnp"
	"github.com/blackwell-systems/driverkeep/internal/store"
	"github.com/blackwell-systems/driverkeep/internal/watcher"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose common issues and check system health",
	Long: `Runs diagnostic checks on your driverkeep installation.

Checks:
  • PowerShell and pnputil are available
  • The process is elevated
  • Database is accessible
  • Vendors config is readable
  • Watch daemon status and recent driver-store changes`,
	RunE: runDoctor,
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("Running driverkeep diagnostics...")
	fmt.Println()

	criticalIssues := 0
	warningIssues := 0

	// Check 1: enumeration collaborator
	if pnp.CommandAvailable("powershell") {
		fmt.Println("✓ PowerShell is available")
	} else {
		fmt.Println("✗ PowerShell not found on PATH")
		fmt.Println("  Action: driver enumeration cannot run without it")
		criticalIssues++
	}

	// Check 2: export collaborator
	if pnp.CommandAvailable("pnputil") {
		fmt.Println("✓ pnputil is available")
	} else {
		fmt.Println("✗ pnputil not found on PATH")
		fmt.Println("  Action: driver export cannot run without it")
		criticalIssues++
	}

	// Check 3: elevation
	if err := pnp.CheckElevated(); err != nil {
		fmt.Println("⚠ Not running elevated")
		fmt.Println("  Action: run as Administrator before 'driverkeep backup'")
		warningIssues++
	} else {
		fmt.Println("✓ Elevation check passed")
	}

	// Check 4: database accessible
	resolvedDBPath, err := getDBPath()
	if err != nil {
		fmt.Println("✗ Database path error:", err)
		criticalIssues++
	} else {
		db, err := store.New(resolvedDBPath)
		if err != nil {
			fmt.Println("✗ Cannot open database:", err)
			criticalIssues++
		} else {
			defer db.Close()
			fmt.Println("✓ Database is accessible:", resolvedDBPath)
		}
	}

	// Check 5: vendors config readable, warning only
	if cfgDir, err := config.Dir(); err != nil {
		fmt.Println("⚠ Cannot determine config directory:", err)
		warningIssues++
	} else if cfg, err := config.LoadVendors(cfgDir); err != nil {
		fmt.Println("⚠ Cannot read vendors config:", err)
		warningIssues++
	} else if len(cfg.Vendors) > 0 {
		fmt.Printf("✓ Vendors config: %d extra excluded providers\n", len(cfg.Vendors))
	} else {
		fmt.Println("✓ Vendors config: using built-in OS-vendor set")
	}

	// Check 6: watch daemon, informational
	if pidFile, err := getDefaultPIDFile(); err == nil {
		if running, err := watcher.IsDaemonRunning(pidFile); err == nil && running {
			fmt.Println("✓ Watch daemon is running")
			reportRecentChanges()
		} else {
			fmt.Println("⚠ Watch daemon is not running")
			fmt.Println("  Start it with 'driverkeep watch --daemon' to track driver-store changes")
			warningIssues++
		}
	}

	fmt.Println()
	switch {
	case criticalIssues > 0:
		fmt.Printf("Found %d critical issue(s) and %d warning(s).\n", criticalIssues, warningIssues)
		os.Exit(1)
	case warningIssues > 0:
		fmt.Printf("Found %d warning(s). Backups will work, but see above.\n", warningIssues)
	default:
		fmt.Println("All checks passed.")
	}

	return nil
}

// reportRecentChanges prints how many driver-store changes the watcher saw in
// the last week, as a hint that a fresh backup may be due.
func reportRecentChanges() {
	path, err := getDBPath()
	if err != nil {
		return
	}
	db, err := store.New(path)
	if err != nil {
		return
	}
	defer db.Close()

	count, err := db.CountDriverEvents(time.Now().Add(-7 * 24 * time.Hour))
	if err != nil || count == 0 {
		return
	}
	fmt.Printf("  %d driver-store change(s) observed in the last 7 days; consider a fresh backup\n", count)
}
