package store

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TIMESTAMP NOT NULL,
    output_root TEXT NOT NULL,
    dry_run BOOLEAN NOT NULL,
    records_seen INTEGER,
    records_excluded INTEGER,
    records_rejected INTEGER,
    packages INTEGER,
    exported INTEGER,
    skipped INTEGER,
    failed INTEGER
);

CREATE TABLE IF NOT EXISTS session_packages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL,
    device_class TEXT NOT NULL,
    inf_name TEXT NOT NULL,
    folder TEXT NOT NULL,
    device_count INTEGER NOT NULL,
    outcome TEXT NOT NULL,
    detail TEXT,
    file_count INTEGER,
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS driver_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL,
    op TEXT NOT NULL,
    timestamp TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_packages ON session_packages(session_id);
CREATE INDEX IF NOT EXISTS idx_driver_events_time ON driver_events(timestamp);
`
