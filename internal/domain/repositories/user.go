package repositories

import (
	"context"

	"stash/internal/domain/models"
)

// UserRepository persists registered accounts.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrConflict if the username
	// is taken.
	Create(ctx context.Context, user *models.User) error

	// GetByUsername fetches a user by username. Returns domain.ErrNotFound
	// if no such user exists.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Delete removes a user row. Used only for compensating cleanup when
	// post-registration provisioning fails.
	Delete(ctx context.Context, id string) error
}
