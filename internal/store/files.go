package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mfc9812ops/Amaze-Picking/internal/model"
)

// CreateFile stores an uploaded file in the given folder and returns its ID.
func (s *Store) CreateFile(ctx context.Context, folderID, name, mime string, data []byte) (string, error) {
	id := uuid.NewString()
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO files (id, folder_id, name, mime, data, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, folderID, name, mime, data, s.Now().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("storing file %q: %w", name, err)
	}
	return id, nil
}

// GetFile returns a file's metadata and contents, or nil if it doesn't exist.
func (s *Store) GetFile(ctx context.Context, id string) (*model.File, []byte, error) {
	file := &model.File{}
	var data []byte
	var createdAt int64
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, folder_id, name, mime, data, created_at FROM files WHERE id = ?`, id,
	).Scan(&file.ID, &file.FolderID, &file.Name, &file.MIME, &data, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("getting file: %w", err)
	}
	file.CreatedAt = time.Unix(0, createdAt)
	return file, data, nil
}

// ListFiles returns the metadata of all files in a folder, upload order.
func (s *Store) ListFiles(ctx context.Context, folderID string) ([]model.File, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, folder_id, name, mime, created_at FROM files
		 WHERE folder_id = ? ORDER BY created_at`, folderID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer rows.Close()

	var files []model.File
	for rows.Next() {
		var file model.File
		var createdAt int64
		if err := rows.Scan(&file.ID, &file.FolderID, &file.Name, &file.MIME, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		file.CreatedAt = time.Unix(0, createdAt)
		files = append(files, file)
	}
	return files, rows.Err()
}
