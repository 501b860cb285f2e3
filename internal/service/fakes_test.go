package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"stash/internal/auth"
	"stash/internal/blob"
	"stash/internal/domain"
	"stash/internal/domain/models"
	"stash/internal/domain/repositories"
)

// Compile-time checks that the fakes satisfy the repository contracts.
var (
	_ repositories.UserRepository     = (*fakeUserRepo)(nil)
	_ repositories.FolderRepository   = (*fakeFolderRepo)(nil)
	_ repositories.FileRepository     = (*fakeFileRepo)(nil)
	_ repositories.TransactionManager = fakeTxManager{}
	_ blob.Store                      = (*fakeBlobStore)(nil)
)

// In-memory repository and blob-store fakes mirroring the Postgres
// implementations' error contracts.

type fakeUserRepo struct {
	users map[string]*models.User // keyed by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Username == user.Username {
			return fmt.Errorf("username %q: %w", user.Username, domain.ErrConflict)
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	delete(r.users, id)
	return nil
}

type fakeFolderRepo struct {
	folders map[string]*models.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]*models.Folder)}
}

func (r *fakeFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	copied := *folder
	r.folders[folder.ID] = &copied
	return nil
}

func (r *fakeFolderRepo) GetByID(_ context.Context, id, ownerID string) (*models.Folder, error) {
	folder, ok := r.folders[id]
	if !ok || folder.OwnerID != ownerID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	copied := *folder
	return &copied, nil
}

func (r *fakeFolderRepo) GetRoot(_ context.Context, ownerID string) (*models.Folder, error) {
	for _, folder := range r.folders {
		if folder.OwnerID == ownerID && folder.ParentID == nil {
			copied := *folder
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("root folder missing for user %s", ownerID)
}

func (r *fakeFolderRepo) ListChildren(_ context.Context, parentID, ownerID string) ([]models.Folder, error) {
	var children []models.Folder
	for _, folder := range r.folders {
		if folder.OwnerID == ownerID && folder.ParentID != nil && *folder.ParentID == parentID {
			children = append(children, *folder)
		}
	}
	return children, nil
}

func (r *fakeFolderRepo) Update(_ context.Context, folder *models.Folder) error {
	existing, ok := r.folders[folder.ID]
	if !ok || existing.OwnerID != folder.OwnerID {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	copied := *folder
	r.folders[folder.ID] = &copied
	return nil
}

// DescendantIDs mirrors the recursive CTE: ownership-checked anchor, then
// child edges downward. A missing or unowned anchor yields an empty set.
func (r *fakeFolderRepo) DescendantIDs(_ context.Context, id, ownerID string) ([]string, error) {
	anchor, ok := r.folders[id]
	if !ok || anchor.OwnerID != ownerID {
		return nil, nil
	}

	ids := []string{id}
	frontier := []string{id}
	for len(frontier) > 0 {
		next := frontier
		frontier = nil
		for _, parentID := range next {
			for _, folder := range r.folders {
				if folder.ParentID != nil && *folder.ParentID == parentID {
					ids = append(ids, folder.ID)
					frontier = append(frontier, folder.ID)
				}
			}
		}
	}
	return ids, nil
}

func (r *fakeFolderRepo) DeleteByIDs(_ context.Context, ids []string) error {
	for _, id := range ids {
		delete(r.folders, id)
	}
	return nil
}

type fakeFileRepo struct {
	files      map[string]*models.File
	failCreate bool
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: make(map[string]*models.File)}
}

func (r *fakeFileRepo) Create(_ context.Context, file *models.File) error {
	if r.failCreate {
		return fmt.Errorf("create file: simulated insert failure")
	}
	copied := *file
	r.files[file.ID] = &copied
	return nil
}

func (r *fakeFileRepo) GetByID(_ context.Context, id string) (*models.File, error) {
	file, ok := r.files[id]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	copied := *file
	return &copied, nil
}

func (r *fakeFileRepo) ListByFolder(_ context.Context, folderID string) ([]models.File, error) {
	var files []models.File
	for _, file := range r.files {
		if file.FolderID == folderID {
			files = append(files, *file)
		}
	}
	return files, nil
}

func (r *fakeFileRepo) ListByFolderIDs(_ context.Context, folderIDs []string) ([]models.File, error) {
	inSet := make(map[string]bool, len(folderIDs))
	for _, id := range folderIDs {
		inSet[id] = true
	}
	var files []models.File
	for _, file := range r.files {
		if inSet[file.FolderID] {
			files = append(files, *file)
		}
	}
	return files, nil
}

func (r *fakeFileRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.files[id]; !ok {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	delete(r.files, id)
	return nil
}

func (r *fakeFileRepo) DeleteByIDs(_ context.Context, ids []string) error {
	for _, id := range ids {
		delete(r.files, id)
	}
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type fakeBlobStore struct {
	blobs         map[string][]byte
	seq           int
	failPut       bool
	failDelete    bool
	failNamespace bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (s *fakeBlobStore) Put(_ context.Context, userID, filename string, r io.Reader) (string, error) {
	if s.failPut {
		return "", fmt.Errorf("simulated put failure")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.seq++
	locator := fmt.Sprintf("%s/%d_%s", userID, s.seq, filename)
	s.blobs[locator] = data
	return locator, nil
}

func (s *fakeBlobStore) Delete(_ context.Context, locator string) error {
	if s.failDelete {
		return fmt.Errorf("simulated delete failure")
	}
	if _, ok := s.blobs[locator]; !ok {
		return fmt.Errorf("locator %q: not stored", locator)
	}
	delete(s.blobs, locator)
	return nil
}

func (s *fakeBlobStore) EnsureNamespace(_ context.Context, userID string) error {
	if s.failNamespace {
		return fmt.Errorf("simulated namespace failure")
	}
	return nil
}

// env bundles the fakes and services for a test.
type env struct {
	users   *fakeUserRepo
	folders *fakeFolderRepo
	files   *fakeFileRepo
	blobs   *fakeBlobStore

	authSvc   *AuthService
	folderSvc *FolderService
	fileSvc   *FileService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	tokens, err := auth.NewTokenService("test-secret", time.Hour, "stash")
	if err != nil {
		t.Fatalf("NewTokenService() unexpected error: %v", err)
	}

	e := &env{
		users:   newFakeUserRepo(),
		folders: newFakeFolderRepo(),
		files:   newFakeFileRepo(),
		blobs:   newFakeBlobStore(),
	}
	e.authSvc = NewAuthService(e.users, e.folders, fakeTxManager{}, e.blobs, tokens, logger)
	e.folderSvc = NewFolderService(e.folders, e.files, e.blobs, fakeTxManager{}, logger)
	e.fileSvc = NewFileService(e.files, e.folders, e.blobs, logger)
	return e
}

// register creates a user and returns its ID and root folder ID.
func (e *env) register(t *testing.T, username string) (string, string) {
	t.Helper()

	user, err := e.authSvc.Register(context.Background(), username, "hunter2hunter2")
	if err != nil {
		t.Fatalf("Register(%q) unexpected error: %v", username, err)
	}
	root, err := e.folders.GetRoot(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetRoot(%q) unexpected error: %v", username, err)
	}
	return user.ID, root.ID
}

// mkFolder creates a folder and returns its ID.
func (e *env) mkFolder(t *testing.T, ownerID, parentID, name string) string {
	t.Helper()

	folder, err := e.folderSvc.Create(context.Background(), ownerID, name, parentID)
	if err != nil {
		t.Fatalf("Create folder %q unexpected error: %v", name, err)
	}
	return folder.ID
}

// mkFile uploads a file and returns its ID.
func (e *env) mkFile(t *testing.T, ownerID, folderID, name string) string {
	t.Helper()

	file, err := e.fileSvc.Upload(context.Background(), ownerID, folderID, name, bytesReader("content of "+name))
	if err != nil {
		t.Fatalf("Upload %q unexpected error: %v", name, err)
	}
	return file.ID
}

func bytesReader(s string) io.Reader {
	return &stringReader{s: s}
}

type stringReader struct {
	s   string
	pos int
}

func (r *stringReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.s) {
		return 0, io.EOF
	}
	n := copy(p, r.s[r.pos:])
	r.pos += n
	return n, nil
}
