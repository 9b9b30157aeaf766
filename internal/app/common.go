package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/driverkeep/internal/config"
)

// stateDir returns ~/.driverkeep, creating it if needed.
func stateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	dir := filepath.Join(home, ".driverkeep")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create driverkeep directory: %w", err)
	}

	return dir, nil
}

// getDBPath returns the database path, using the flag value or default
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}

	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "driverkeep.db"), nil
}

// getDefaultPIDFile returns the default PID file path
func getDefaultPIDFile() (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watch.pid"), nil
}

// getDefaultLogFile returns the default log file path
func getDefaultLogFile() (string, error) {
	dir, err := stateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watch.log"), nil
}

// loadExtraVendors reads the optional vendors config file. A missing file is
// an empty list; a malformed one degrades to the built-in vendor set with a
// warning rather than blocking the backup.
func loadExtraVendors() []string {
	cfgDir, err := config.Dir()
	if err != nil {
		return nil
	}
	cfg, err := config.LoadVendors(cfgDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not read vendors config: %v\n", err)
		return nil
	}
	return cfg.Vendors
}
