// Package blob stores uploaded file bytes and hands back opaque locators.
// The tree engine never interprets a locator; it only stores it alongside the
// file row and presents it back for deletion.
package blob

import (
	"context"
	"io"
)

// Store is the blob storage contract consumed by the file and folder
// services.
type Store interface {
	// Put writes the content of r under the user's namespace and returns
	// the locator identifying the stored bytes.
	Put(ctx context.Context, userID, filename string, r io.Reader) (string, error)

	// Delete releases the bytes behind locator. Deleting an unknown locator
	// is an error; callers decide whether that aborts the operation.
	Delete(ctx context.Context, locator string) error

	// EnsureNamespace provisions per-user storage at registration time.
	EnsureNamespace(ctx context.Context, userID string) error
}
