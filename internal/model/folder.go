package model

import "time"

// Folder is a node in the hierarchical file store. IDs are opaque strings.
type Folder struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// File is an uploaded object inside a folder.
type File struct {
	ID        string    `json:"id"`
	FolderID  string    `json:"folder_id"`
	Name      string    `json:"name"`
	MIME      string    `json:"mime"`
	CreatedAt time.Time `json:"created_at"`
}
