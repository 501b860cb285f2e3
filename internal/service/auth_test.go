package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"stash/internal/auth"
	"stash/internal/domain"
)

func TestRegisterProvisionsRootFolder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.authSvc.Register(ctx, "alice", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Fatal("Register() returned a user without an ID")
	}
	if user.PasswordHash == "hunter2hunter2" {
		t.Error("Register() stored the plaintext password")
	}

	root, err := e.folders.GetRoot(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetRoot() unexpected error: %v", err)
	}
	if root.ParentID != nil {
		t.Errorf("root folder parent = %v, want nil", *root.ParentID)
	}
	if root.Name != "alice" {
		t.Errorf("root folder name = %q, want %q", root.Name, "alice")
	}
	if root.OwnerID != user.ID {
		t.Errorf("root folder owner = %q, want %q", root.OwnerID, user.ID)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.authSvc.Register(ctx, "alice", "hunter2hunter2"); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	_, err := e.authSvc.Register(ctx, "alice", "another-password")
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("Register() duplicate error = %v, want ErrConflict", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty username", username: "", password: "hunter2hunter2"},
		{name: "username too long", username: strings.Repeat("a", 16), password: "hunter2hunter2"},
		{name: "empty password", username: "alice", password: ""},
		{name: "password too short", username: "alice", password: "short"},
		{name: "password too long", username: "alice", password: strings.Repeat("p", 73)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.authSvc.Register(ctx, tt.username, tt.password)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Register(%q, ...) error = %v, want ErrValidation", tt.username, err)
			}
		})
	}
}

func TestRegisterNamespaceFailureRollsBack(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.blobs.failNamespace = true

	_, err := e.authSvc.Register(ctx, "alice", "hunter2hunter2")
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("Register() error = %v, want ErrStorage", err)
	}

	if _, err := e.users.GetByUsername(ctx, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Error("user row survived a failed namespace provisioning")
	}
	if len(e.folders.folders) != 0 {
		t.Errorf("folder rows after rollback = %d, want 0", len(e.folders.folders))
	}

	// The name is usable again once provisioning succeeds.
	e.blobs.failNamespace = false
	if _, err := e.authSvc.Register(ctx, "alice", "hunter2hunter2"); err != nil {
		t.Errorf("Register() retry unexpected error: %v", err)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.authSvc.Register(ctx, "alice", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	token, err := e.authSvc.Login(ctx, "alice", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}

	verifier, err := auth.NewTokenService("test-secret", time.Hour, "stash")
	if err != nil {
		t.Fatalf("NewTokenService() unexpected error: %v", err)
	}
	userID, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if userID != user.ID {
		t.Errorf("token subject = %q, want %q", userID, user.ID)
	}
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.authSvc.Register(ctx, "alice", "hunter2hunter2"); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	_, wrongPassErr := e.authSvc.Login(ctx, "alice", "not-the-password")
	_, noUserErr := e.authSvc.Login(ctx, "mallory", "hunter2hunter2")

	if !errors.Is(wrongPassErr, domain.ErrUnauthorized) {
		t.Errorf("Login() wrong-password error = %v, want ErrUnauthorized", wrongPassErr)
	}
	if !errors.Is(noUserErr, domain.ErrUnauthorized) {
		t.Errorf("Login() unknown-user error = %v, want ErrUnauthorized", noUserErr)
	}
	if wrongPassErr.Error() != noUserErr.Error() {
		t.Errorf("login failures differ: %q vs %q, want identical messages", wrongPassErr, noUserErr)
	}
}
