package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Session operations

// InsertSession inserts a recorded backup run and returns its ID.
func (s *Store) InsertSession(sess *Session) (int64, error) {
	query := `
		INSERT INTO sessions
		(started_at, output_root, dry_run, records_seen, records_excluded, records_rejected, packages, exported, skipped, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		sess.StartedAt.Format(time.RFC3339),
		sess.OutputRoot,
		sess.DryRun,
		sess.RecordsSeen,
		sess.RecordsExcluded,
		sess.RecordsRejected,
		sess.Packages,
		sess.Exported,
		sess.Skipped,
		sess.Failed,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get session ID: %w", err)
	}
	return id, nil
}

// GetSession retrieves a recorded session by ID.
func (s *Store) GetSession(id int64) (*Session, error) {
	query := `
		SELECT id, started_at, output_root, dry_run, records_seen, records_excluded, records_rejected, packages, exported, skipped, failed
		FROM sessions
		WHERE id = ?
	`

	var sess Session
	var startedAt string

	err := s.db.QueryRow(query, id).Scan(
		&sess.ID,
		&startedAt,
		&sess.OutputRoot,
		&sess.DryRun,
		&sess.RecordsSeen,
		&sess.RecordsExcluded,
		&sess.RecordsRejected,
		&sess.Packages,
		&sess.Exported,
		&sess.Skipped,
		&sess.Failed,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %d: %w", id, err)
	}

	sess.StartedAt, err = time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at for session %d: %w", id, err)
	}

	return &sess, nil
}

// ListSessions returns the most recent sessions, newest first.
func (s *Store) ListSessions(limit int) ([]*Session, error) {
	query := `
		SELECT id, started_at, output_root, dry_run, records_seen, records_excluded, records_rejected, packages, exported, skipped, failed
		FROM sessions
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var sess Session
		var startedAt string

		err := rows.Scan(
			&sess.ID,
			&startedAt,
			&sess.OutputRoot,
			&sess.DryRun,
			&sess.RecordsSeen,
			&sess.RecordsExcluded,
			&sess.RecordsRejected,
			&sess.Packages,
			&sess.Exported,
			&sess.Skipped,
			&sess.Failed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		sess.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse started_at: %w", err)
		}

		sessions = append(sessions, &sess)
	}

	return sessions, rows.Err()
}

// Session package operations

// InsertSessionPackage records one package outcome for a session.
func (s *Store) InsertSessionPackage(pkg *SessionPackage) error {
	query := `
		INSERT INTO session_packages
		(session_id, device_class, inf_name, folder, device_count, outcome, detail, file_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		pkg.SessionID,
		pkg.DeviceClass,
		pkg.InfName,
		pkg.Folder,
		pkg.DeviceCount,
		pkg.Outcome,
		pkg.Detail,
		pkg.FileCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session package %s: %w", pkg.Folder, err)
	}
	return nil
}

// GetSessionPackages returns every package outcome recorded for a session, in
// insertion order.
func (s *Store) GetSessionPackages(sessionID int64) ([]*SessionPackage, error) {
	query := `
		SELECT id, session_id, device_class, inf_name, folder, device_count, outcome, detail, file_count
		FROM session_packages
		WHERE session_id = ?
		ORDER BY id
	`

	rows, err := s.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session packages: %w", err)
	}
	defer rows.Close()

	var packages []*SessionPackage
	for rows.Next() {
		var pkg SessionPackage
		err := rows.Scan(
			&pkg.ID,
			&pkg.SessionID,
			&pkg.DeviceClass,
			&pkg.InfName,
			&pkg.Folder,
			&pkg.DeviceCount,
			&pkg.Outcome,
			&pkg.Detail,
			&pkg.FileCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session package: %w", err)
		}
		packages = append(packages, &pkg)
	}

	return packages, rows.Err()
}

// Driver event operations

// InsertDriverEvent records one driver-store change observed by the watcher.
func (s *Store) InsertDriverEvent(event *DriverEvent) error {
	query := `
		INSERT INTO driver_events (path, op, timestamp)
		VALUES (?, ?, ?)
	`

	_, err := s.db.Exec(query, event.Path, event.Op, event.Timestamp.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert driver event: %w", err)
	}
	return nil
}

// ListDriverEvents returns driver-store events since the given time, oldest
// first.
func (s *Store) ListDriverEvents(since time.Time) ([]*DriverEvent, error) {
	query := `
		SELECT id, path, op, timestamp
		FROM driver_events
		WHERE timestamp >= ?
		ORDER BY timestamp
	`

	rows, err := s.db.Query(query, since.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to list driver events: %w", err)
	}
	defer rows.Close()

	var events []*DriverEvent
	for rows.Next() {
		var event DriverEvent
		var ts string

		if err := rows.Scan(&event.ID, &event.Path, &event.Op, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan driver event: %w", err)
		}

		event.Timestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event timestamp: %w", err)
		}

		events = append(events, &event)
	}

	return events, rows.Err()
}

// CountDriverEvents returns how many driver-store events have been recorded
// since the given time.
func (s *Store) CountDriverEvents(since time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM driver_events WHERE timestamp >= ?",
		since.Format(time.RFC3339),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count driver events: %w", err)
	}
	return count, nil
}
