// Package watcher monitors the driver store's INF directory for changes.
//
// Every time a driver package is installed or removed, Windows writes or
// deletes oem*.inf files under the INF directory. The Watcher records those
// filesystem events in the database so `driverkeep watch --status` can tell
// an operator that the driver set has drifted since the last backup.
//
// Key features:
//   - fsnotify-based directory watching (no polling)
//   - Batched event recording with debounce to ride out installer bursts
//   - Daemon mode support with PID file management
//   - Graceful shutdown with SIGTERM/SIGINT handling
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/driverkeep/internal/store"
)

// DefaultINFDir returns the directory the driver store keeps definition
// files in.
func DefaultINFDir() string {
	windir := os.Getenv("WINDIR")
	if windir == "" {
		windir = `C:\Windows`
	}
	return filepath.Join(windir, "INF")
}

// Watcher observes one directory and records relevant change events.
type Watcher struct {
	store    *store.Store
	dir      string
	fsw      *fsnotify.Watcher
	stopCh   chan struct{}
	wg       sync.WaitGroup
	debounce time.Duration
}

// New creates a Watcher over dir backed by st.
func New(st *store.Store, dir string) (*Watcher, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if dir == "" {
		return nil, fmt.Errorf("watch directory cannot be empty")
	}
	return &Watcher{
		store:    st,
		dir:      dir,
		stopCh:   make(chan struct{}),
		debounce: 2 * time.Second,
	}, nil
}

// Start begins watching the directory. Events are debounced and written to
// the database as they settle.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.run()

	return nil
}

// run consumes fsnotify events until stopped. A short debounce window
// collapses the bursts driver installers produce into a batch insert.
func (w *Watcher) run() {
	defer w.wg.Done()

	pending := make(map[string]string) // path → op of last event
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	flush := func() {
		for path, op := range pending {
			event := &store.DriverEvent{
				Path:      path,
				Op:        op,
				Timestamp: time.Now(),
			}
			if err := w.store.InsertDriverEvent(event); err != nil {
				fmt.Fprintf(os.Stderr, "watcher: failed to record event for %s: %v\n", path, err)
			}
		}
		pending = make(map[string]string)
	}

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				flush()
				return
			}
			if !relevantEvent(event) {
				continue
			}
			pending[event.Name] = opLabel(event.Op)
			if flushTimer == nil {
				flushTimer = time.NewTimer(w.debounce)
			} else {
				flushTimer.Reset(w.debounce)
			}
			flushCh = flushTimer.C

		case <-flushCh:
			flush()
			flushCh = nil

		case err, ok := <-w.fsw.Errors:
			if !ok {
				flush()
				return
			}
			fmt.Fprintf(os.Stderr, "watcher: %v\n", err)

		case <-w.stopCh:
			flush()
			return
		}
	}
}

// relevantEvent filters for definition-file changes; editors and the OS
// touch plenty of other files in the same directory.
func relevantEvent(event fsnotify.Event) bool {
	name := strings.ToLower(filepath.Base(event.Name))
	if !strings.HasSuffix(name, ".inf") {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func opLabel(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	default:
		return "write"
	}
}

// Stop halts the watcher and flushes any pending events.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	if w.fsw != nil {
		w.fsw.Close()
	}
	w.wg.Wait()
	return nil
}
