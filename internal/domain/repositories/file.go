package repositories

import (
	"context"

	"stash/internal/domain/models"
)

// FileRepository persists file rows. Files carry no owner column; callers
// authorize through the parent folder before touching a row.
type FileRepository interface {
	// Create inserts a new file row.
	Create(ctx context.Context, file *models.File) error

	// GetByID fetches a file by ID. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*models.File, error)

	// ListByFolder returns the files directly inside folderID.
	ListByFolder(ctx context.Context, folderID string) ([]models.File, error)

	// ListByFolderIDs returns every file whose parent folder is in folderIDs.
	ListByFolderIDs(ctx context.Context, folderIDs []string) ([]models.File, error)

	// Delete removes a single file row. Returns domain.ErrNotFound if the
	// row is already gone.
	Delete(ctx context.Context, id string) error

	// DeleteByIDs removes all files in ids as one set operation.
	DeleteByIDs(ctx context.Context, ids []string) error
}
