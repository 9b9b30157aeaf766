package backup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/driverkeep/internal/pnp"
)

// Orchestrator drives exactly one export-primitive call per distinct
// definition file, strictly one package at a time. Export failures are
// recorded and counted, never fatal to the run.
type Orchestrator struct {
	exporter pnp.Exporter
	verbose  bool
	out      io.Writer

	// OnPackage, when set, is invoked after each package's outcome is
	// recorded. Used for progress reporting.
	OnPackage func(*PackageResult)
}

// NewOrchestrator creates an orchestrator using the given export primitive.
func NewOrchestrator(exporter pnp.Exporter) *Orchestrator {
	return &Orchestrator{exporter: exporter, out: io.Discard}
}

// SetVerbose enables per-package narration on w.
func (o *Orchestrator) SetVerbose(w io.Writer) {
	o.verbose = true
	o.out = w
}

// Run resolves folder names for every package in the session and performs the
// exports, recording one outcome per package. In dry-run sessions the
// identical grouping and naming path is traversed, outcomes assume success,
// and nothing touches the filesystem.
func (o *Orchestrator) Run(session *BackupSession) {
	resolver := NewResolver()
	// Definition file → folder of its first attempt. One export call per
	// identifier per session, even when the same INF shows up in two classes.
	exportedInf := make(map[string]string)

	for _, bucket := range session.Buckets {
		classSegment := resolver.ClassSegment(bucket.Class)

		if o.verbose {
			fmt.Fprintf(o.out, "Processing device class: %s\n", bucket.Class)
			fmt.Fprintf(o.out, "  Class folder: %s\n", classSegment)
			fmt.Fprintf(o.out, "  Driver packages in this class: %d\n\n", len(bucket.Packages))
		}

		for _, pkg := range bucket.Packages {
			result := &PackageResult{
				Package:        pkg,
				ClassSegment:   classSegment,
				PackageSegment: resolver.PackageSegment(classSegment, pkg),
			}
			session.Results = append(session.Results, result)

			if o.verbose {
				primary := pkg.Primary()
				fmt.Fprintf(o.out, "  Processing driver package: %s v%s (%s)\n",
					primary.DeviceName, primary.Version, pkg.InfName)
				fmt.Fprintf(o.out, "    Folder: %s\n", result.PackageSegment)
				fmt.Fprintf(o.out, "    Devices in this package: %d\n", len(pkg.Records))
			}

			inf := pkg.ExportIdentifier()
			switch {
			case inf == "":
				result.Outcome = ExportOutcome{
					Kind:   OutcomeSkipped,
					Reason: "no definition-file identifier",
				}
				session.Counters.Skipped++

			case exportedInf[inf] != "":
				result.Outcome = ExportOutcome{
					Kind:   OutcomeSkipped,
					Reason: "definition file already processed at " + exportedInf[inf],
				}
				session.Counters.Skipped++

			default:
				result.Outcome = o.exportPackage(session, inf, result)
				// Record the attempt whatever the outcome: the export
				// primitive is called at most once per identifier per session.
				exportedInf[inf] = result.FolderName()
				switch result.Outcome.Kind {
				case OutcomeSuccess:
					session.Counters.Exported++
				case OutcomeFailed:
					session.Counters.Failed++
				case OutcomeSkipped:
					session.Counters.Skipped++
				}
			}

			if o.verbose {
				fmt.Fprintf(o.out, "    Outcome: %s\n\n", DescribeOutcome(result.Outcome))
			}
			if o.OnPackage != nil {
				o.OnPackage(result)
			}
		}
	}
}

// exportPackage performs (or simulates) the single export call for one
// package and classifies the result.
func (o *Orchestrator) exportPackage(session *BackupSession, inf string, result *PackageResult) ExportOutcome {
	if session.DryRun {
		return ExportOutcome{Kind: OutcomeSuccess}
	}

	destDir := filepath.Join(session.OutputRoot, result.ClassSegment, result.PackageSegment)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return ExportOutcome{
			Kind:    OutcomeFailed,
			Failure: pnp.FailureOther,
			Detail:  fmt.Sprintf("failed to create destination directory: %v", err),
		}
	}
	result.DirCreated = true

	count, err := o.exporter.Export(inf, destDir)
	if err != nil {
		var exportErr *pnp.ExportError
		if errors.As(err, &exportErr) {
			return ExportOutcome{
				Kind:    OutcomeFailed,
				Failure: exportErr.Kind,
				Detail:  exportErr.Message,
			}
		}
		return ExportOutcome{
			Kind:    OutcomeFailed,
			Failure: pnp.FailureOther,
			Detail:  err.Error(),
		}
	}

	return ExportOutcome{Kind: OutcomeSuccess, FileCount: count}
}

// DescribeOutcome renders an outcome for reports and verbose logs.
func DescribeOutcome(o ExportOutcome) string {
	switch o.Kind {
	case OutcomeSuccess:
		return fmt.Sprintf("exported (%d files)", o.FileCount)
	case OutcomeSkipped:
		return "skipped: " + o.Reason
	default:
		if o.Detail != "" {
			return fmt.Sprintf("failed (%s): %s", o.Failure, o.Detail)
		}
		return fmt.Sprintf("failed (%s)", o.Failure)
	}
}
