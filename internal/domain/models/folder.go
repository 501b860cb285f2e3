package models

import "time"

// Folder is a node in a user's directory tree, stored as a parent-pointer
// record. ParentID is nil only for the user's root folder; every user has
// exactly one such row, created at registration.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id,omitempty"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsRoot reports whether the folder is its owner's root. Roots cannot be
// renamed, moved or deleted.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}
