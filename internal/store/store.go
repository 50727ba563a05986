package store

import (
	"database/sql"
	"time"
)

// RootFolderID is the parent ID of top-level folders in the file store.
const RootFolderID = "root"

// Store provides access to the hierarchical file store and the tabular
// sheet store, both backed by the same SQLite database.
type Store struct {
	DB  *sql.DB
	Now func() time.Time
}

// New creates a Store using the wall clock.
func New(db *sql.DB) *Store {
	return &Store{DB: db, Now: time.Now}
}
