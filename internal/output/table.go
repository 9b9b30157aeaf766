// Package output provides terminal output utilities for driverkeep.
//
// This package includes:
//   - Table rendering for driver records, package plans, and session history
//   - Progress bar and spinner for long-running export runs
//
// All table rendering functions use ASCII characters and ANSI color codes for
// terminal output. Progress indicators are thread-safe.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/driverkeep/internal/backup"
	"github.com/blackwell-systems/driverkeep/internal/store"
)

// ANSI color codes for outcome display
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderDriverTable renders the normalized driver records, one row per
// device, in the order they were discovered.
func RenderDriverTable(records []backup.DriverRecord) string {
	if len(records) == 0 {
		return "No third-party drivers found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-34s %-16s %-12s %-12s %s\n",
		"Device", "Version", "Date", "Class", "INF"))
	sb.WriteString(strings.Repeat("─", 92))
	sb.WriteString("\n")

	for _, r := range records {
		sb.WriteString(fmt.Sprintf("%-34s %-16s %-12s %-12s %s\n",
			truncate(r.DeviceName, 34),
			truncate(r.Version, 16),
			truncate(r.Date, 12),
			truncate(r.Class, 12),
			r.InfName))
	}

	return sb.String()
}

// RenderPlanTable renders the resolved package plan: one row per package with
// its folder, definition file, and device count. Used by the list command and
// dry runs; the rows come straight from the session results so the preview
// matches what a live run would write.
func RenderPlanTable(results []*backup.PackageResult) string {
	if len(results) == 0 {
		return "No driver packages to export.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-52s %-20s %s\n", "Folder", "INF", "Devices"))
	sb.WriteString(strings.Repeat("─", 82))
	sb.WriteString("\n")

	for _, res := range results {
		sb.WriteString(fmt.Sprintf("%-52s %-20s %d\n",
			truncate(res.FolderName(), 52),
			truncate(res.Package.InfName, 20),
			len(res.Package.Records)))
	}

	return sb.String()
}

// RenderOutcomeLine renders one colored per-package outcome for live runs.
func RenderOutcomeLine(res *backup.PackageResult) string {
	label := backup.DescribeOutcome(res.Outcome)
	switch res.Outcome.Kind {
	case backup.OutcomeSuccess:
		label = colorize(colorGreen, "✓ "+label)
	case backup.OutcomeSkipped:
		label = colorize(colorYellow, "- "+label)
	default:
		label = colorize(colorRed, "✗ "+label)
	}
	return fmt.Sprintf("%s  %s", res.FolderName(), label)
}

// RenderSessionTable renders past backup runs, newest first.
func RenderSessionTable(sessions []*store.Session) string {
	if len(sessions) == 0 {
		return "No recorded backup runs.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-5s %-14s %-9s %-9s %-8s %-8s %s\n",
		"ID", "Started", "Packages", "Exported", "Skipped", "Failed", "Output"))
	sb.WriteString(strings.Repeat("─", 96))
	sb.WriteString("\n")

	for _, sess := range sessions {
		output := sess.OutputRoot
		if sess.DryRun {
			output = "(dry run)"
		}
		sb.WriteString(fmt.Sprintf("%-5d %-14s %-9d %-9d %-8d %-8d %s\n",
			sess.ID,
			formatRelativeTime(sess.StartedAt),
			sess.Packages,
			sess.Exported,
			sess.Skipped,
			sess.Failed,
			truncate(output, 42)))
	}

	return sb.String()
}

// formatRelativeTime formats a timestamp relative to now for table display.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	elapsed := time.Since(t)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%d min ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(elapsed.Hours()))
	case elapsed < 30*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(elapsed.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// truncate shortens a string to maxLen characters, appending "..." when it
// was cut.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
