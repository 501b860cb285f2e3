package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stash/internal/domain"
	"stash/internal/domain/models"
	"stash/internal/domain/repositories"
)

// PostgresFileRepository implements the FileRepository interface.
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewFileRepository creates a new file repository.
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new file row.
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, locator, folder_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, r.tables.Files)

	exec := GetExecutor(ctx, r.pool)
	_, err := exec.Exec(ctx, query,
		file.ID,
		file.Name,
		file.Locator,
		file.FolderID,
		file.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByID fetches a file by ID.
func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := fmt.Sprintf(`
		SELECT id, name, locator, folder_id, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Files)

	exec := GetExecutor(ctx, r.pool)

	var file models.File
	err := exec.QueryRow(ctx, query, id).Scan(
		&file.ID,
		&file.Name,
		&file.Locator,
		&file.FolderID,
		&file.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return &file, nil
}

// ListByFolder returns the files directly inside folderID.
func (r *PostgresFileRepository) ListByFolder(ctx context.Context, folderID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT id, name, locator, folder_id, created_at
		FROM %s
		WHERE folder_id = $1
		ORDER BY name ASC
	`, r.tables.Files)

	exec := GetExecutor(ctx, r.pool)

	rows, err := exec.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	return scanFiles(rows)
}

// ListByFolderIDs returns every file whose parent folder is in folderIDs.
func (r *PostgresFileRepository) ListByFolderIDs(ctx context.Context, folderIDs []string) ([]models.File, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT id, name, locator, folder_id, created_at
		FROM %s
		WHERE folder_id = ANY($1)
	`, r.tables.Files)

	exec := GetExecutor(ctx, r.pool)

	rows, err := exec.Query(ctx, query, folderIDs)
	if err != nil {
		return nil, fmt.Errorf("list files by folders: %w", err)
	}
	defer rows.Close()

	return scanFiles(rows)
}

// Delete removes a single file row.
func (r *PostgresFileRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Files)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByIDs removes all files in ids as one set operation.
func (r *PostgresFileRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, r.tables.Files)

	exec := GetExecutor(ctx, r.pool)
	if _, err := exec.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("delete files: %w", err)
	}

	return nil
}

func scanFiles(rows pgx.Rows) ([]models.File, error) {
	var files []models.File
	for rows.Next() {
		var file models.File
		err := rows.Scan(
			&file.ID,
			&file.Name,
			&file.Locator,
			&file.FolderID,
			&file.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}
