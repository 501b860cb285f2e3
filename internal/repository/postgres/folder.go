package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"stash/internal/domain"
	"stash/internal/domain/models"
	"stash/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface.
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository.
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new folder.
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, parent_id, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Folders)

	exec := GetExecutor(ctx, r.pool)
	_, err := exec.Exec(ctx, query,
		folder.ID,
		folder.Name,
		folder.ParentID,
		folder.OwnerID,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID fetches a folder owned by ownerID. A folder owned by someone else
// scans as no rows, so ownership mismatch and nonexistence are reported the
// same way.
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, name, parent_id, owner_id, created_at, updated_at
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Folders)

	exec := GetExecutor(ctx, r.pool)

	var folder models.Folder
	err := exec.QueryRow(ctx, query, id, ownerID).Scan(
		&folder.ID,
		&folder.Name,
		&folder.ParentID,
		&folder.OwnerID,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// GetRoot fetches the unique folder with a nil parent for ownerID. The row is
// created at registration, so its absence is a data-integrity fault, not a
// user-facing ErrNotFound.
func (r *PostgresFolderRepository) GetRoot(ctx context.Context, ownerID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, name, parent_id, owner_id, created_at, updated_at
		FROM %s
		WHERE owner_id = $1 AND parent_id IS NULL
	`, r.tables.Folders)

	exec := GetExecutor(ctx, r.pool)

	var folder models.Folder
	err := exec.QueryRow(ctx, query, ownerID).Scan(
		&folder.ID,
		&folder.Name,
		&folder.ParentID,
		&folder.OwnerID,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("root folder missing for user %s", ownerID)
		}
		return nil, fmt.Errorf("get root folder: %w", err)
	}

	return &folder, nil
}

// ListChildren returns the immediate child folders of parentID.
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID, ownerID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, name, parent_id, owner_id, created_at, updated_at
		FROM %s
		WHERE parent_id = $1 AND owner_id = $2
		ORDER BY name ASC
	`, r.tables.Folders)

	exec := GetExecutor(ctx, r.pool)

	rows, err := exec.Query(ctx, query, parentID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.Name,
			&folder.ParentID,
			&folder.OwnerID,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// Update persists name and parent changes. The owner column is immutable and
// doubles as the scope guard in the WHERE clause.
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, parent_id = $2, updated_at = $3
		WHERE id = $4 AND owner_id = $5
	`, r.tables.Folders)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query,
		folder.Name,
		folder.ParentID,
		folder.UpdatedAt,
		folder.ID,
		folder.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// DescendantIDs computes the closure set of id with a recursive CTE: the
// anchor is the ownership-checked folder itself, the recursive term follows
// child edges downward. An unowned or missing anchor yields an empty set.
func (r *PostgresFolderRepository) DescendantIDs(ctx context.Context, id, ownerID string) ([]string, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT id
			FROM %s
			WHERE id = $1 AND owner_id = $2
			UNION ALL
			SELECT f.id
			FROM %s f
			JOIN subtree s ON f.parent_id = s.id
		)
		SELECT id FROM subtree
	`, r.tables.Folders, r.tables.Folders)

	exec := GetExecutor(ctx, r.pool)

	rows, err := exec.Query(ctx, query, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query folder subtree: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var folderID string
		if err := rows.Scan(&folderID); err != nil {
			return nil, fmt.Errorf("scan folder id: %w", err)
		}
		ids = append(ids, folderID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder subtree: %w", err)
	}

	return ids, nil
}

// DeleteByIDs removes all folders in ids as one set operation.
func (r *PostgresFolderRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, r.tables.Folders)

	exec := GetExecutor(ctx, r.pool)
	if _, err := exec.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("delete folders: %w", err)
	}

	return nil
}
