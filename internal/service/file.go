package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"stash/internal/blob"
	"stash/internal/domain"
	"stash/internal/domain/models"
	"stash/internal/domain/repositories"
)

// FileService implements upload and deletion of files. Files have no owner
// column; authorization always goes through the parent folder.
type FileService struct {
	files   repositories.FileRepository
	folders repositories.FolderRepository
	blobs   blob.Store
	logger  *slog.Logger
}

// NewFileService creates a new file service.
func NewFileService(
	files repositories.FileRepository,
	folders repositories.FolderRepository,
	blobs blob.Store,
	logger *slog.Logger,
) *FileService {
	return &FileService{
		files:   files,
		folders: folders,
		blobs:   blobs,
		logger:  logger,
	}
}

// Upload stores the content of r in the blob store and inserts the file row.
// If the row insert fails after the blob write, the blob is deleted again so
// no stored bytes dangle without a row.
func (s *FileService) Upload(ctx context.Context, callerID, folderID, filename string, r io.Reader) (*models.File, error) {
	err := validation.Errors{
		"folderId": validation.Validate(folderID, validation.Required),
		"filename": validation.Validate(filename, validation.Required, validation.Length(1, 255)),
	}.Filter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folders.GetByID(ctx, folderID, callerID)
	if err != nil {
		return nil, err
	}

	locator, err := s.blobs.Put(ctx, callerID, filename, r)
	if err != nil {
		return nil, fmt.Errorf("store file content: %w", domain.ErrStorage)
	}

	file := &models.File{
		ID:        uuid.NewString(),
		Name:      filename,
		Locator:   locator,
		FolderID:  folder.ID,
		CreatedAt: time.Now(),
	}

	if err := s.files.Create(ctx, file); err != nil {
		if cleanupErr := s.blobs.Delete(ctx, locator); cleanupErr != nil {
			s.logger.Error("compensating blob delete failed",
				"locator", locator,
				"error", cleanupErr,
			)
		}
		return nil, err
	}

	s.logger.Info("file uploaded",
		"file_id", file.ID,
		"name", file.Name,
		"folder_id", folder.ID,
	)

	return file, nil
}

// Delete removes a file row, then releases its blob. The parent folder is
// resolved for the caller first, so a file inside another user's tree is
// indistinguishable from a missing one.
func (s *FileService) Delete(ctx context.Context, callerID, fileID string) error {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return err
	}

	if _, err := s.folders.GetByID(ctx, file.FolderID, callerID); err != nil {
		// Report the file, not the folder, as missing.
		return fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}

	if err := s.files.Delete(ctx, file.ID); err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, file.Locator); err != nil {
		s.logger.Error("blob release failed after row delete",
			"file_id", file.ID,
			"locator", file.Locator,
			"error", err,
		)
		return fmt.Errorf("release file %s: %w", file.ID, domain.ErrStorage)
	}

	s.logger.Info("file deleted", "file_id", file.ID)

	return nil
}
