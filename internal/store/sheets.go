package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// EnsureSheet creates a sheet with the given header if it doesn't already
// exist. An existing sheet's header is left untouched.
func (s *Store) EnsureSheet(ctx context.Context, name string, header []string) error {
	encoded, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("encoding header: %w", err)
	}

	_, err = s.DB.ExecContext(ctx,
		`INSERT OR IGNORE INTO sheets (name, header) VALUES (?, ?)`,
		name, string(encoded),
	)
	if err != nil {
		return fmt.Errorf("ensuring sheet %q: %w", name, err)
	}
	return nil
}

// AppendRow appends one row of fields to a sheet. The sheet must exist.
func (s *Store) AppendRow(ctx context.Context, sheet string, fields []string) error {
	encoded, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding row: %w", err)
	}

	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO sheet_rows (sheet_name, fields, created_at) VALUES (?, ?, ?)`,
		sheet, string(encoded), s.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("appending row to %q: %w", sheet, err)
	}
	return nil
}

// ReadAllRows returns a sheet's header row followed by all data rows in
// append order, or nil if the sheet doesn't exist.
func (s *Store) ReadAllRows(ctx context.Context, sheet string) ([][]string, error) {
	var headerJSON string
	err := s.DB.QueryRowContext(ctx,
		`SELECT header FROM sheets WHERE name = ?`, sheet,
	).Scan(&headerJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	var header []string
	if err := json.Unmarshal([]byte(headerJSON), &header); err != nil {
		return nil, fmt.Errorf("decoding header of %q: %w", sheet, err)
	}
	all := [][]string{header}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT fields FROM sheet_rows WHERE sheet_name = ? ORDER BY id`, sheet,
	)
	if err != nil {
		return nil, fmt.Errorf("reading rows of %q: %w", sheet, err)
	}
	defer rows.Close()

	for rows.Next() {
		var fieldsJSON string
		if err := rows.Scan(&fieldsJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		var fields []string
		if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
			return nil, fmt.Errorf("decoding row of %q: %w", sheet, err)
		}
		all = append(all, fields)
	}
	return all, rows.Err()
}
