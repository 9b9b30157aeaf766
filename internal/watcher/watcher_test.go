package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/driverkeep/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewValidation(t *testing.T) {
	st := testStore(t)

	if _, err := New(nil, t.TempDir()); err == nil {
		t.Error("nil store accepted")
	}
	if _, err := New(st, ""); err == nil {
		t.Error("empty directory accepted")
	}
	if _, err := New(st, t.TempDir()); err != nil {
		t.Errorf("valid arguments rejected: %v", err)
	}
}

func TestRelevantEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"inf create", fsnotify.Event{Name: `C:\Windows\INF\oem42.inf`, Op: fsnotify.Create}, true},
		{"inf write", fsnotify.Event{Name: "oem42.inf", Op: fsnotify.Write}, true},
		{"inf remove", fsnotify.Event{Name: "oem42.inf", Op: fsnotify.Remove}, true},
		{"inf rename", fsnotify.Event{Name: "oem42.inf", Op: fsnotify.Rename}, true},
		{"uppercase extension", fsnotify.Event{Name: "OEM42.INF", Op: fsnotify.Create}, true},
		{"inf chmod only", fsnotify.Event{Name: "oem42.inf", Op: fsnotify.Chmod}, false},
		{"pnf file", fsnotify.Event{Name: "oem42.pnf", Op: fsnotify.Create}, false},
		{"log file", fsnotify.Event{Name: "setupapi.log", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relevantEvent(tt.ev); got != tt.want {
				t.Errorf("relevantEvent(%v %v) = %v, want %v", tt.ev.Name, tt.ev.Op, got, tt.want)
			}
		})
	}
}

func TestOpLabel(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want string
	}{
		{fsnotify.Create, "create"},
		{fsnotify.Remove, "remove"},
		{fsnotify.Rename, "rename"},
		{fsnotify.Write, "write"},
	}
	for _, tt := range tests {
		if got := opLabel(tt.op); got != tt.want {
			t.Errorf("opLabel(%v) = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestWatcherRecordsEvents(t *testing.T) {
	st := testStore(t)
	dir := t.TempDir()

	w, err := New(st, dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.debounce = 50 * time.Millisecond

	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "oem42.inf"), []byte("[Version]"), 0644); err != nil {
		t.Fatal(err)
	}
	// Irrelevant neighbor; must not be recorded.
	if err := os.WriteFile(filepath.Join(dir, "setupapi.log"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// Wait out the debounce window, then stop (which flushes).
	deadline := time.After(3 * time.Second)
	for {
		events, err := st.ListDriverEvents(time.Time{})
		if err != nil {
			t.Fatalf("ListDriverEvents: %v", err)
		}
		if len(events) > 0 {
			for _, e := range events {
				if !strings.HasSuffix(strings.ToLower(e.Path), ".inf") {
					t.Errorf("recorded a non-INF event: %q", e.Path)
				}
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("no events recorded before deadline")
		case <-time.After(20 * time.Millisecond):
		}
	}

	if err := w.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestDefaultINFDir(t *testing.T) {
	t.Setenv("WINDIR", `D:\CustomWindows`)
	if got := DefaultINFDir(); got != filepath.Join(`D:\CustomWindows`, "INF") {
		t.Errorf("DefaultINFDir = %q", got)
	}

	t.Setenv("WINDIR", "")
	if got := DefaultINFDir(); got != filepath.Join(`C:\Windows`, "INF") {
		t.Errorf("DefaultINFDir fallback = %q", got)
	}
}
