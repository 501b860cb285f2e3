package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"stash/internal/blob"
	"stash/internal/domain"
	"stash/internal/domain/models"
	"stash/internal/domain/repositories"
)

// Entry is the caller-facing description of a tree node. Locators and owner
// ids stay server-side.
type Entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FolderContents is the one-level listing of a folder.
type FolderContents struct {
	CurrentDir Entry   `json:"currentDir"`
	Folders    []Entry `json:"folders"`
	Files      []Entry `json:"files"`
}

// UpdateFolderRequest carries a rename, a move, or both.
type UpdateFolderRequest struct {
	NewName     *string `json:"newName"`
	NewParentID *string `json:"newParentId"`
}

var folderNamePattern = regexp.MustCompile(`^[^/]+$`)

// FolderService implements the ownership-scoped tree operations. Every
// operation re-resolves the target folder against the caller before acting;
// nothing is cached across requests.
type FolderService struct {
	folders   repositories.FolderRepository
	files     repositories.FileRepository
	blobs     blob.Store
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewFolderService creates a new folder service.
func NewFolderService(
	folders repositories.FolderRepository,
	files repositories.FileRepository,
	blobs blob.Store,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *FolderService {
	return &FolderService{
		folders:   folders,
		files:     files,
		blobs:     blobs,
		txManager: txManager,
		logger:    logger,
	}
}

// ListContents returns the immediate children of folderID, or of the
// caller's root folder when folderID is nil.
func (s *FolderService) ListContents(ctx context.Context, callerID string, folderID *string) (*FolderContents, error) {
	var folder *models.Folder
	var err error

	if folderID != nil && *folderID != "" {
		folder, err = s.folders.GetByID(ctx, *folderID, callerID)
	} else {
		folder, err = s.folders.GetRoot(ctx, callerID)
	}
	if err != nil {
		return nil, err
	}

	childFolders, err := s.folders.ListChildren(ctx, folder.ID, callerID)
	if err != nil {
		return nil, err
	}

	childFiles, err := s.files.ListByFolder(ctx, folder.ID)
	if err != nil {
		return nil, err
	}

	contents := &FolderContents{
		CurrentDir: Entry{ID: folder.ID, Name: folder.Name},
		Folders:    make([]Entry, 0, len(childFolders)),
		Files:      make([]Entry, 0, len(childFiles)),
	}
	for _, f := range childFolders {
		contents.Folders = append(contents.Folders, Entry{ID: f.ID, Name: f.Name})
	}
	for _, f := range childFiles {
		contents.Files = append(contents.Files, Entry{ID: f.ID, Name: f.Name})
	}

	return contents, nil
}

// Create inserts a new folder under parentID. The parent must resolve for
// the caller; the new folder inherits the caller as owner. Sibling name
// duplicates are permitted.
func (s *FolderService) Create(ctx context.Context, callerID, name, parentID string) (*models.Folder, error) {
	if err := validateFolderName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	parent, err := s.folders.GetByID(ctx, parentID, callerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	folder := &models.Folder{
		ID:        uuid.NewString(),
		Name:      name,
		ParentID:  &parent.ID,
		OwnerID:   callerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.folders.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"folder_id", folder.ID,
		"name", folder.Name,
		"parent_id", parent.ID,
		"owner_id", callerID,
	)

	return folder, nil
}

// Update renames and/or moves a folder. Root folders cannot be modified.
// A move resolves the new parent for the same caller, so moving into another
// user's tree is impossible by construction, and is rejected when the new
// parent lies inside the moved folder's own subtree.
func (s *FolderService) Update(ctx context.Context, callerID, folderID string, req *UpdateFolderRequest) (*models.Folder, error) {
	if req.NewName == nil && req.NewParentID == nil {
		return nil, fmt.Errorf("%w: at least one of newName, newParentId must be provided", domain.ErrValidation)
	}

	folder, err := s.folders.GetByID(ctx, folderID, callerID)
	if err != nil {
		return nil, err
	}
	if folder.IsRoot() {
		return nil, fmt.Errorf("root folder cannot be modified: %w", domain.ErrForbidden)
	}

	if req.NewName != nil {
		if err := validateFolderName(*req.NewName); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		folder.Name = *req.NewName
	}

	if req.NewParentID != nil {
		parent, err := s.folders.GetByID(ctx, *req.NewParentID, callerID)
		if err != nil {
			return nil, err
		}

		// Reparenting under the folder's own subtree would detach it from
		// the root into an unreachable island.
		subtree, err := s.folders.DescendantIDs(ctx, folder.ID, callerID)
		if err != nil {
			return nil, err
		}
		if slices.Contains(subtree, parent.ID) {
			return nil, fmt.Errorf("cannot move a folder into its own subtree: %w", domain.ErrForbidden)
		}

		folder.ParentID = &parent.ID
	}

	folder.UpdatedAt = time.Now()

	if err := s.folders.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"folder_id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// Delete removes a folder and everything beneath it.
//
// The closure set is computed with one recursive query anchored on the
// ownership-verified folder. Blob releases for every file in the closure
// must succeed before any row is deleted; a single failure aborts the whole
// operation with no rows touched. Row deletion then runs in one transaction,
// files before folders, to keep referential integrity.
func (s *FolderService) Delete(ctx context.Context, callerID, folderID string) error {
	folder, err := s.folders.GetByID(ctx, folderID, callerID)
	if err != nil {
		return err
	}
	if folder.IsRoot() {
		return fmt.Errorf("root folder cannot be deleted: %w", domain.ErrForbidden)
	}

	folderIDs, err := s.folders.DescendantIDs(ctx, folder.ID, callerID)
	if err != nil {
		return err
	}

	files, err := s.files.ListByFolderIDs(ctx, folderIDs)
	if err != nil {
		return err
	}

	for _, file := range files {
		if err := s.blobs.Delete(ctx, file.Locator); err != nil {
			s.logger.Error("blob release failed, aborting folder delete",
				"folder_id", folder.ID,
				"file_id", file.ID,
				"error", err,
			)
			return fmt.Errorf("release file %s: %w", file.ID, domain.ErrStorage)
		}
	}

	fileIDs := make([]string, 0, len(files))
	for _, file := range files {
		fileIDs = append(fileIDs, file.ID)
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.files.DeleteByIDs(txCtx, fileIDs); err != nil {
			return err
		}
		return s.folders.DeleteByIDs(txCtx, folderIDs)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"folder_id", folder.ID,
		"folders_removed", len(folderIDs),
		"files_removed", len(fileIDs),
	)

	return nil
}

func validateFolderName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, 255),
		validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
	)
}
