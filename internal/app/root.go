package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	dbPath string

	// RootCmd is the root command for driverkeep
	RootCmd = &cobra.Command{
		Use:   "driverkeep",
		Short: "Backup third-party drivers with deduplicated package export",
		Long: `driverkeep discovers installed third-party drivers, deduplicates them into
installable packages (one package per definition file, shared across every
device it supports), exports each package exactly once via pnputil, and
writes CSV and text inventories alongside the exported files.

OS-vendor drivers are excluded automatically; add more providers to exclude
in the vendors config file.

Quick Start:
  1. driverkeep list            # preview what would be backed up
  2. driverkeep backup --dry-run
  3. driverkeep backup -o D:\DriverBackup   (run elevated)

Features:
  • One export per definition file, however many devices share it
  • Deterministic, collision-free folder names per device class
  • Per-package and master CSV inventories plus a text summary
  • Per-package failures are reported, never abort the run
  • Backup history and driver-store change tracking

Examples:
  # Preview the package plan
  driverkeep list

  # Back up to the default output directory
  driverkeep backup

  # Back up verbosely to a specific directory
  driverkeep backup --output D:\DriverBackup --verbose

  # Review past runs
  driverkeep history

  # Watch the driver store for changes
  driverkeep watch --daemon`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("driverkeep: third-party driver backup with deduplicated package export")
			fmt.Println()
			fmt.Println("Tip: Run 'driverkeep list' to preview the package plan.")
			fmt.Println("     Run 'driverkeep backup' (elevated) to export drivers.")
			fmt.Println("     Run 'driverkeep --help' for all commands.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.driverkeep/driverkeep.db)")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}
