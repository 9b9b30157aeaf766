package store

import (
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReopenExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driverkeep.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id, err := s.InsertSession(&Session{StartedAt: time.Now(), OutputRoot: "root"})
	if err != nil {
		t.Fatalf("InsertSession: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopening an existing file must not disturb the schema or its rows.
	s2, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	if _, err := s2.GetSession(id); err != nil {
		t.Errorf("session lost across reopen: %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	s := testStore(t)

	started := time.Date(2023, 1, 15, 9, 30, 0, 0, time.UTC)
	id, err := s.InsertSession(&Session{
		StartedAt:       started,
		OutputRoot:      `D:\DriverBackup\drivers_20230115_093000`,
		RecordsSeen:     120,
		RecordsExcluded: 95,
		RecordsRejected: 2,
		Packages:        14,
		Exported:        12,
		Skipped:         1,
		Failed:          1,
	})
	if err != nil {
		t.Fatalf("InsertSession: %v", err)
	}

	got, err := s.GetSession(id)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, started)
	}
	if got.RecordsSeen != 120 || got.Exported != 12 || got.Failed != 1 {
		t.Errorf("counters did not round-trip: %+v", got)
	}
	if got.DryRun {
		t.Error("DryRun = true, want false")
	}
}

func TestGetSessionNotFound(t *testing.T) {
	s := testStore(t)
	if _, err := s.GetSession(999); err == nil {
		t.Error("expected error for missing session")
	}
}

func TestListSessionsNewestFirst(t *testing.T) {
	s := testStore(t)

	for i := 0; i < 3; i++ {
		_, err := s.InsertSession(&Session{
			StartedAt:  time.Now().Add(time.Duration(i) * time.Minute),
			OutputRoot: "root",
		})
		if err != nil {
			t.Fatalf("InsertSession %d: %v", i, err)
		}
	}

	sessions, err := s.ListSessions(2)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("len(sessions) = %d, want limit of 2", len(sessions))
	}
	if sessions[0].ID < sessions[1].ID {
		t.Error("sessions not newest first")
	}
}

func TestSessionPackages(t *testing.T) {
	s := testStore(t)

	id, err := s.InsertSession(&Session{StartedAt: time.Now(), OutputRoot: "root"})
	if err != nil {
		t.Fatalf("InsertSession: %v", err)
	}

	packages := []*SessionPackage{
		{SessionID: id, DeviceClass: "Display", InfName: "oem42.inf",
			Folder: "Display/GPU_1.0 Package", DeviceCount: 3, Outcome: "exported", FileCount: 40},
		{SessionID: id, DeviceClass: "System", InfName: "oem42.inf",
			Folder: "System/Bus_1.0 Package", DeviceCount: 1, Outcome: "skipped",
			Detail: "definition file already processed at Display/GPU_1.0 Package"},
	}
	for _, pkg := range packages {
		if err := s.InsertSessionPackage(pkg); err != nil {
			t.Fatalf("InsertSessionPackage: %v", err)
		}
	}

	got, err := s.GetSessionPackages(id)
	if err != nil {
		t.Fatalf("GetSessionPackages: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(packages) = %d, want 2", len(got))
	}
	if got[0].Outcome != "exported" || got[0].FileCount != 40 {
		t.Errorf("first package = %+v", got[0])
	}
	if got[1].Outcome != "skipped" || got[1].Detail == "" {
		t.Errorf("second package = %+v", got[1])
	}
}

func TestDriverEvents(t *testing.T) {
	s := testStore(t)

	base := time.Date(2023, 1, 15, 9, 0, 0, 0, time.UTC)
	events := []*DriverEvent{
		{Path: `C:\Windows\INF\oem42.inf`, Op: "create", Timestamp: base},
		{Path: `C:\Windows\INF\oem7.inf`, Op: "write", Timestamp: base.Add(time.Hour)},
		{Path: `C:\Windows\INF\oem9.inf`, Op: "remove", Timestamp: base.Add(2 * time.Hour)},
	}
	for _, e := range events {
		if err := s.InsertDriverEvent(e); err != nil {
			t.Fatalf("InsertDriverEvent: %v", err)
		}
	}

	got, err := s.ListDriverEvents(base.Add(30 * time.Minute))
	if err != nil {
		t.Fatalf("ListDriverEvents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(events) = %d, want 2 since cutoff", len(got))
	}
	if got[0].Op != "write" || got[1].Op != "remove" {
		t.Errorf("events out of order: %v, %v", got[0].Op, got[1].Op)
	}

	count, err := s.CountDriverEvents(base)
	if err != nil {
		t.Fatalf("CountDriverEvents: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}
