package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the findings database. Timestamps are stored as Unix
// nanoseconds so both SQLite drivers compare them the same way.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started_at INTEGER NOT NULL,
    completed_at INTEGER NOT NULL,
    config_path TEXT,
    inputs TEXT,
    rules TEXT,
    declarations INTEGER NOT NULL DEFAULT 0,
    fix_mode BOOLEAN NOT NULL DEFAULT 0,
    status TEXT NOT NULL,
    error TEXT,
    finding_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS findings (
    id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL REFERENCES runs(id),
    fingerprint TEXT NOT NULL,
    rule TEXT NOT NULL,
    source TEXT NOT NULL,
    property TEXT NOT NULL,
    value TEXT NOT NULL,
    line INTEGER NOT NULL,
    column_number INTEGER NOT NULL,
    severity TEXT NOT NULL,
    message TEXT NOT NULL,
    eligible_types TEXT,
    longhand TEXT,
    longhand_value TEXT,
    fixed TEXT,
    fix_applied BOOLEAN NOT NULL DEFAULT 0,
    recorded_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_findings_run_id ON findings(run_id);
CREATE INDEX IF NOT EXISTS idx_findings_fingerprint ON findings(fingerprint);
CREATE INDEX IF NOT EXISTS idx_findings_source ON findings(source);
CREATE INDEX IF NOT EXISTS idx_findings_rule ON findings(rule);
CREATE INDEX IF NOT EXISTS idx_findings_recorded_at ON findings(recorded_at);
`

// InsertSchemaVersion records the applied schema version.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertRun = `
INSERT INTO runs (
    id, started_at, completed_at, config_path, inputs, rules,
    declarations, fix_mode, status, error, finding_count
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const insertFinding = `
INSERT INTO findings (
    id, run_id, fingerprint, rule, source, property, value, line, column_number,
    severity, message, eligible_types, longhand, longhand_value, fixed, fix_applied,
    recorded_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const runColumns = `id, started_at, completed_at, config_path, inputs, rules,
    declarations, fix_mode, status, error, finding_count`

const findingColumns = `id, run_id, fingerprint, rule, source, property, value, line, column_number,
    severity, message, eligible_types, longhand, longhand_value, fixed, fix_applied,
    recorded_at`
