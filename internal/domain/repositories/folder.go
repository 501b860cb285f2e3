package repositories

import (
	"context"

	"stash/internal/domain/models"
)

// FolderRepository persists the parent-pointer folder tree.
//
// Every read that takes an ownerID is ownership-scoped: a folder that exists
// but belongs to another user is reported as domain.ErrNotFound, identical to
// a folder that does not exist at all.
type FolderRepository interface {
	// Create inserts a new folder.
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID fetches a folder owned by ownerID.
	GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error)

	// GetRoot fetches the unique folder with a nil parent for ownerID.
	// Its absence for a registered user is a data-integrity fault, surfaced
	// as a plain error rather than ErrNotFound.
	GetRoot(ctx context.Context, ownerID string) (*models.Folder, error)

	// ListChildren returns the immediate child folders of parentID, one
	// level only.
	ListChildren(ctx context.Context, parentID, ownerID string) ([]models.Folder, error)

	// Update persists name and parent changes.
	Update(ctx context.Context, folder *models.Folder) error

	// DescendantIDs returns the closure set of id: the folder itself plus
	// every transitive descendant. The anchor row is ownership-checked, so
	// an unowned or missing id yields an empty set.
	DescendantIDs(ctx context.Context, id, ownerID string) ([]string, error)

	// DeleteByIDs removes all folders in ids as one set operation.
	DeleteByIDs(ctx context.Context, ids []string) error
}
