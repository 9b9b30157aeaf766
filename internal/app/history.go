package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/driverkeep/internal/output"
	"github.com/blackwell-systems/driverkeep/internal/store"
)

var (
	historySession int64
	historyLimit   int

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show past backup runs and their package outcomes",
		Long: `Show recorded backup sessions from the driverkeep database.

Every backup run (including dry runs) is recorded with its aggregate
counters and the per-package outcomes, so a failed export can be traced
after the fact.`,
		Example: `  # List recent runs
  driverkeep history

  # Show every package outcome of run 3
  driverkeep history --session 3`,
		RunE: runHistory,
	}
)

func init() {
	historyCmd.Flags().Int64Var(&historySession, "session", 0, "show package outcomes for one session")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "number of sessions to list")

	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, err := getDBPath()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("No recorded backup runs yet. Run 'driverkeep backup' first.")
		return nil
	}

	db, err := store.New(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if historySession > 0 {
		return showSessionDetail(db, historySession)
	}

	sessions, err := db.ListSessions(historyLimit)
	if err != nil {
		return err
	}

	fmt.Print(output.RenderSessionTable(sessions))
	return nil
}

func showSessionDetail(db *store.Store, id int64) error {
	sess, err := db.GetSession(id)
	if err != nil {
		return err
	}

	packages, err := db.GetSessionPackages(id)
	if err != nil {
		return err
	}

	fmt.Printf("Session %d (started %s)\n", sess.ID, sess.StartedAt.Format("2006-01-02 15:04:05"))
	if sess.DryRun {
		fmt.Println("Mode: dry run")
	} else {
		fmt.Printf("Output: %s\n", sess.OutputRoot)
	}
	fmt.Printf("Records seen: %d (excluded: %d, rejected: %d)\n",
		sess.RecordsSeen, sess.RecordsExcluded, sess.RecordsRejected)
	fmt.Printf("Packages: %d (exported: %d, skipped: %d, failed: %d)\n\n",
		sess.Packages, sess.Exported, sess.Skipped, sess.Failed)

	for _, pkg := range packages {
		line := fmt.Sprintf("%-10s %s (%s, %d devices)", pkg.Outcome, pkg.Folder, pkg.InfName, pkg.DeviceCount)
		if pkg.Outcome == "exported" {
			line += fmt.Sprintf(", %d files", pkg.FileCount)
		}
		if pkg.Detail != "" {
			line += ": " + pkg.Detail
		}
		fmt.Println(line)
	}

	return nil
}
