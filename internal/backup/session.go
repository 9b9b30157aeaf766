package backup

import (
	"time"

	"github.com/blackwell-systems/driverkeep/internal/pnp"
)

// OutcomeKind is the per-package export result category.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeSkipped
	OutcomeFailed
)

// String returns the label used in reports and session history.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "exported"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// ExportOutcome is the single, never-dropped result recorded against each
// package by the time reports are written.
type ExportOutcome struct {
	Kind      OutcomeKind
	FileCount int             // valid for OutcomeSuccess
	Reason    string          // valid for OutcomeSkipped
	Failure   pnp.FailureKind // valid for OutcomeFailed
	Detail    string          // underlying failure text, if any
}

// PackageResult ties a package to its resolved folder and outcome.
type PackageResult struct {
	Package        *DriverPackage
	ClassSegment   string
	PackageSegment string
	DirCreated     bool // the destination directory exists on disk
	Outcome        ExportOutcome
}

// FolderName returns the package's full relative path within the session
// root, as recorded in the master inventory.
func (r *PackageResult) FolderName() string {
	return r.ClassSegment + "/" + r.PackageSegment
}

// SessionCounters aggregates what one run saw and did.
type SessionCounters struct {
	RecordsSeen     int
	RecordsExcluded int
	RecordsRejected int
	RecordsKept     int
	Packages        int
	Exported        int
	Skipped         int
	Failed          int
}

// BackupSession is the aggregate root of one backup run. Created at run
// start, populated by grouping, consumed by the orchestrator and report
// writer, discarded at process exit.
type BackupSession struct {
	StartedAt  time.Time
	OutputRoot string // outputRoot/drivers_<timestamp>
	DryRun     bool
	Buckets    []ClassBucket
	Results    []*PackageResult
	Counters   SessionCounters
}

// NewSession creates a session rooted at root for the given grouped buckets.
func NewSession(root string, startedAt time.Time, dryRun bool, buckets []ClassBucket, stats NormalizeStats) *BackupSession {
	s := &BackupSession{
		StartedAt:  startedAt,
		OutputRoot: root,
		DryRun:     dryRun,
		Buckets:    buckets,
	}
	s.Counters.RecordsSeen = stats.Seen
	s.Counters.RecordsExcluded = stats.Excluded
	s.Counters.RecordsRejected = stats.Rejected
	s.Counters.RecordsKept = stats.Kept
	for _, b := range buckets {
		s.Counters.Packages += len(b.Packages)
	}
	return s
}
