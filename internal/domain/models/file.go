package models

import "time"

// File is an uploaded file row. Ownership is derived through the parent
// folder; there is no direct owner column. Locator is the opaque blob-store
// reference and never leaves the server.
type File struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Locator   string    `json:"-"`
	FolderID  string    `json:"folder_id"`
	CreatedAt time.Time `json:"created_at"`
}
