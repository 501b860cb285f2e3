package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskStore keeps blobs on the local filesystem under
// <root>/<userID>/<timestamp>_<filename>. Locators are paths relative to the
// root directory.
type DiskStore struct {
	root string
}

// NewDiskStore creates a disk-backed store rooted at dir, creating it if
// needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("blob directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &DiskStore{root: dir}, nil
}

// Put writes the content of r to a new file in the user's directory.
func (s *DiskStore) Put(ctx context.Context, userID, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	locator := filepath.Join(userID, fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeName(filename)))

	path := filepath.Join(s.root, locator)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create user directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create blob file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write blob file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close blob file: %w", err)
	}

	return locator, nil
}

// Delete removes the file behind locator.
func (s *DiskStore) Delete(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.root, locator)); err != nil {
		return fmt.Errorf("remove blob file: %w", err)
	}
	return nil
}

// EnsureNamespace creates the user's directory.
func (s *DiskStore) EnsureNamespace(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(s.root, userID), 0o755); err != nil {
		return fmt.Errorf("create user directory: %w", err)
	}
	return nil
}

// sanitizeName strips path separators so an uploaded filename cannot escape
// the user's directory.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	if name == "" || name == "." || name == ".." {
		return "unnamed"
	}
	return name
}
