package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"stash/internal/auth"
	"stash/internal/blob"
	"stash/internal/domain"
	"stash/internal/domain/models"
	"stash/internal/domain/repositories"
)

// AuthService handles registration and login. Registration provisions the
// user's root folder and blob namespace alongside the account itself.
type AuthService struct {
	users     repositories.UserRepository
	folders   repositories.FolderRepository
	txManager repositories.TransactionManager
	blobs     blob.Store
	tokens    *auth.TokenService
	logger    *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	users repositories.UserRepository,
	folders repositories.FolderRepository,
	txManager repositories.TransactionManager,
	blobs blob.Store,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		folders:   folders,
		txManager: txManager,
		blobs:     blobs,
		tokens:    tokens,
		logger:    logger,
	}
}

// Register creates a user with a hashed password and, in the same
// transaction, the user's root folder (named after the user, nil parent).
// The blob namespace is provisioned after commit; if that fails, the rows
// are removed again so a half-provisioned account never survives.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	digest, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: digest,
		CreatedAt:    now,
	}
	root := &models.Folder{
		ID:        uuid.NewString(),
		Name:      username,
		ParentID:  nil,
		OwnerID:   user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.users.Create(txCtx, user); err != nil {
			return err
		}
		return s.folders.Create(txCtx, root)
	})
	if err != nil {
		return nil, err
	}

	if err := s.blobs.EnsureNamespace(ctx, user.ID); err != nil {
		s.logger.Error("namespace provisioning failed, rolling back registration",
			"user_id", user.ID,
			"error", err,
		)
		if cleanupErr := s.folders.DeleteByIDs(ctx, []string{root.ID}); cleanupErr != nil {
			s.logger.Error("compensating root folder delete failed", "user_id", user.ID, "error", cleanupErr)
		}
		if cleanupErr := s.users.Delete(ctx, user.ID); cleanupErr != nil {
			s.logger.Error("compensating user delete failed", "user_id", user.ID, "error", cleanupErr)
		}
		return nil, fmt.Errorf("provision storage namespace: %w", domain.ErrStorage)
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"username", user.Username,
		"root_folder_id", root.ID,
	)

	return user, nil
}

// Login verifies the credentials and issues a session token. Unknown
// username and wrong password produce the same error so accounts cannot be
// enumerated.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return token, nil
}

func validateCredentials(username, password string) error {
	return validation.Errors{
		"username": validation.Validate(username,
			validation.Required,
			validation.Length(1, 15),
		),
		"password": validation.Validate(password,
			validation.Required,
			validation.Length(8, 72),
		),
	}.Filter()
}
