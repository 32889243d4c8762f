package database

import (
	"database/sql"
	"fmt"
)

// initHistoryTable initializes the request history table.
//
// Timestamps are stored as Unix milliseconds.
func initHistoryTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS history (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        endpoint TEXT NOT NULL,
        url TEXT NOT NULL,
        format_id TEXT,
        output_kind TEXT,
        status INTEGER NOT NULL,
        error_kind TEXT,
        bytes INTEGER DEFAULT 0,
        started_at INTEGER NOT NULL,
        finished_at INTEGER NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_history_started_at ON history(started_at);
    CREATE INDEX IF NOT EXISTS idx_history_endpoint ON history(endpoint);
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create history table: %w", err)
	}
	return nil
}
