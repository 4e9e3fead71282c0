package store

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
// Budget allocations live in a JSON column keyed by category name, so
// adding or renaming categories does not require a migration.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS responses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    user_id TEXT DEFAULT '',
    timestamp TEXT NOT NULL,
    budgets TEXT NOT NULL DEFAULT '{}',
    other_description TEXT DEFAULT '',
    reasoning TEXT DEFAULT '',
    threat_name TEXT DEFAULT '',
    likelihood TEXT DEFAULT '',
    impact TEXT DEFAULT '',
    trigger_event TEXT DEFAULT '',
    archetype TEXT DEFAULT '',
    followup TEXT DEFAULT '',
    created_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS registrations (
    user_id TEXT PRIMARY KEY,
    passcode TEXT NOT NULL,
    job_title TEXT DEFAULT '',
    school_name TEXT DEFAULT '',
    university_type TEXT DEFAULT '',
    locale TEXT DEFAULT '',
    role TEXT DEFAULT '',
    region TEXT DEFAULT '',
    suggested_question TEXT DEFAULT '',
    created_at TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_responses_session ON responses(session_id);
CREATE INDEX IF NOT EXISTS idx_responses_user ON responses(user_id);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
