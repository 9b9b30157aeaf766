// Package config provides configuration file parsing for driverkeep.
package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the driverkeep config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/driverkeep if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "driverkeep"), nil
}

// VendorConfig holds extra provider strings to exclude from backup, on top
// of the built-in OS-vendor set.
type VendorConfig struct {
	Vendors []string
}

// LoadVendors reads the vendors file at {dir}/vendors and returns the parsed
// config: one provider string per line, matched case-insensitively as exact
// or prefix. If the file does not exist, an empty config is returned without
// an error. Blank lines and # comments are skipped.
func LoadVendors(dir string) (*VendorConfig, error) {
	cfg := &VendorConfig{}

	path := filepath.Join(dir, "vendors")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cfg.Vendors = append(cfg.Vendors, line)
	}

	if err := scanner.Err(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
