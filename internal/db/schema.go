package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. The folders/files tables back the
// hierarchical file store; sheets/sheet_rows back the tabular ledger store.
// created_at columns hold Unix nanoseconds so creation-time ordering is
// stable within a single second.
const schema = `
CREATE TABLE IF NOT EXISTS folders (
    id         TEXT PRIMARY KEY,
    parent_id  TEXT NOT NULL,
    name       TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_folders_parent ON folders(parent_id);

CREATE TABLE IF NOT EXISTS files (
    id         TEXT PRIMARY KEY,
    folder_id  TEXT NOT NULL REFERENCES folders(id),
    name       TEXT NOT NULL,
    mime       TEXT NOT NULL,
    data       BLOB NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_files_folder ON files(folder_id);

CREATE TABLE IF NOT EXISTS sheets (
    name   TEXT PRIMARY KEY,
    header TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sheet_rows (
    id         INTEGER PRIMARY KEY,
    sheet_name TEXT NOT NULL REFERENCES sheets(name),
    fields     TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sheet_rows_sheet ON sheet_rows(sheet_name);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
