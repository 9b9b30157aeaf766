package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/driverkeep/internal/store"
	"github.com/blackwell-systems/driverkeep/internal/watcher"
)

var (
	watchDaemon     bool
	watchForeground bool
	watchStop       bool
	watchStatus     bool
	watchDir        string
	watchPIDFile    string
	watchLogFile    string

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Monitor the driver store for changes",
		Long: `Watch the INF directory for definition-file changes and record them in
the driverkeep database.

Every driver install or removal touches the INF directory. Recorded events
let 'driverkeep doctor' and 'driverkeep watch --status' tell you when the
driver set has drifted since your last backup.

Watch modes:
  • Daemon: run as a background process (recommended)
  • Foreground: run in the current terminal, Ctrl+C to stop
  • Stop: stop a running daemon
  • Status: show daemon state and recent change counts`,
		Example: `  # Run as background daemon
  driverkeep watch --daemon

  # Run in the foreground
  driverkeep watch --foreground

  # Check what has changed lately
  driverkeep watch --status

  # Stop the daemon
  driverkeep watch --stop`,
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "run as background daemon")
	watchCmd.Flags().BoolVar(&watchForeground, "foreground", false, "run in the foreground")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "stop running daemon")
	watchCmd.Flags().BoolVar(&watchStatus, "status", false, "show daemon status and recent changes")
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "directory to watch (default: the system INF directory)")
	watchCmd.Flags().StringVar(&watchPIDFile, "pid-file", "", "PID file path (default: ~/.driverkeep/watch.pid)")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "log file path (default: ~/.driverkeep/watch.log)")

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchPIDFile == "" {
		defaultPID, err := getDefaultPIDFile()
		if err != nil {
			return fmt.Errorf("failed to get default PID file path: %w", err)
		}
		watchPIDFile = defaultPID
	}
	if watchLogFile == "" {
		defaultLog, err := getDefaultLogFile()
		if err != nil {
			return fmt.Errorf("failed to get default log file path: %w", err)
		}
		watchLogFile = defaultLog
	}
	if watchDir == "" {
		watchDir = watcher.DefaultINFDir()
	}

	if watchStop {
		if err := watcher.StopDaemon(watchPIDFile); err != nil {
			return err
		}
		fmt.Println("Watch daemon stopped.")
		return nil
	}

	if watchStatus {
		return showWatchStatus()
	}

	if watchDaemon {
		if err := watcher.StartDaemon(watchPIDFile, watchLogFile, watchDir); err != nil {
			return err
		}
		fmt.Printf("Watch daemon started (watching %s).\n", watchDir)
		fmt.Printf("Log file: %s\n", watchLogFile)
		return nil
	}

	if !watchForeground {
		fmt.Println("Pick a mode: --daemon, --foreground, --status, or --stop.")
		fmt.Println("Run 'driverkeep watch --help' for details.")
		return nil
	}

	// Foreground mode (also the daemon child's code path).
	dbFile, err := getDBPath()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	db, err := store.New(dbFile)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	w, err := watcher.New(db, watchDir)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	fmt.Printf("Watching %s for driver-store changes (Ctrl+C to stop)...\n", watchDir)
	return w.RunForeground(watchPIDFile)
}

func showWatchStatus() error {
	running, err := watcher.IsDaemonRunning(watchPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		fmt.Println("Watch daemon: running")
	} else {
		fmt.Println("Watch daemon: not running")
	}

	dbFile, err := getDBPath()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	db, err := store.New(dbFile)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	for _, window := range []struct {
		label string
		d     time.Duration
	}{
		{"last 24 hours", 24 * time.Hour},
		{"last 7 days", 7 * 24 * time.Hour},
		{"last 30 days", 30 * 24 * time.Hour},
	} {
		count, err := db.CountDriverEvents(time.Now().Add(-window.d))
		if err != nil {
			return err
		}
		fmt.Printf("Driver-store changes (%s): %d\n", window.label, count)
	}

	return nil
}
