package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mfc9812ops/Amaze-Picking/internal/model"
)

// CreateFolder creates a folder under the given parent and returns it.
func (s *Store) CreateFolder(ctx context.Context, parentID, name string) (*model.Folder, error) {
	folder := &model.Folder{
		ID:        uuid.NewString(),
		ParentID:  parentID,
		Name:      name,
		CreatedAt: s.Now(),
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO folders (id, parent_id, name, created_at) VALUES (?, ?, ?, ?)`,
		folder.ID, folder.ParentID, folder.Name, folder.CreatedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating folder %q: %w", name, err)
	}
	return folder, nil
}

// FindFolder returns the child of parentID with the exact given name, or nil
// if none exists. When duplicates exist the most recently created one wins.
func (s *Store) FindFolder(ctx context.Context, parentID, name string) (*model.Folder, error) {
	folder := &model.Folder{}
	var createdAt int64
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, parent_id, name, created_at FROM folders
		 WHERE parent_id = ? AND name = ?
		 ORDER BY created_at DESC LIMIT 1`, parentID, name,
	).Scan(&folder.ID, &folder.ParentID, &folder.Name, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding folder %q: %w", name, err)
	}
	folder.CreatedAt = time.Unix(0, createdAt)
	return folder, nil
}

// FindChildFolders returns the children of parentID whose name contains the
// given substring, ordered by creation time descending.
func (s *Store) FindChildFolders(ctx context.Context, parentID, nameContains string) ([]model.Folder, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, parent_id, name, created_at FROM folders
		 WHERE parent_id = ? AND instr(name, ?) > 0
		 ORDER BY created_at DESC`, parentID, nameContains,
	)
	if err != nil {
		return nil, fmt.Errorf("listing child folders: %w", err)
	}
	defer rows.Close()

	var folders []model.Folder
	for rows.Next() {
		var folder model.Folder
		var createdAt int64
		if err := rows.Scan(&folder.ID, &folder.ParentID, &folder.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning folder: %w", err)
		}
		folder.CreatedAt = time.Unix(0, createdAt)
		folders = append(folders, folder)
	}
	return folders, rows.Err()
}
