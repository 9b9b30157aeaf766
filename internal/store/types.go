package store

import "time"

// Session is one recorded backup run.
type Session struct {
	ID              int64
	StartedAt       time.Time
	OutputRoot      string
	DryRun          bool
	RecordsSeen     int
	RecordsExcluded int
	RecordsRejected int
	Packages        int
	Exported        int
	Skipped         int
	Failed          int
}

// SessionPackage is one package outcome within a recorded session.
type SessionPackage struct {
	ID          int64
	SessionID   int64
	DeviceClass string
	InfName     string
	Folder      string
	DeviceCount int
	Outcome     string // "exported", "skipped", "failed"
	Detail      string
	FileCount   int
}

// DriverEvent records one observed change in the driver store directory.
type DriverEvent struct {
	ID        int64
	Path      string
	Op        string
	Timestamp time.Time
}
