package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"peerpath/internal/domain/profile"
)

// ChangePasswordInput carries input for the change-password orchestrator.
type ChangePasswordInput struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
}

// ProfileStoreForChangePassword defines the store interface needed by ChangePassword.
type ProfileStoreForChangePassword interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	ProfileStore ProfileStoreForChangePassword
}

var (
	ErrCurrentPasswordWrong = errors.New("current password is incorrect")
	ErrNewPasswordSame      = errors.New("new password must be different from current password")
)

// ExecuteChangePassword validates the current password and updates to the new one.
// PRE: UserID is valid, both passwords are non-empty
// POST: Password hash is replaced
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	if input.UserID == "" || input.CurrentPassword == "" || input.NewPassword == "" {
		return errors.New("all fields are required")
	}

	p, err := deps.ProfileStore.GetByID(ctx, input.UserID)
	if err != nil {
		return errors.New("profile not found")
	}

	// Verify current password
	if err := p.CheckPassword(input.CurrentPassword); err != nil {
		return ErrCurrentPasswordWrong
	}

	// Ensure new password is different
	if input.CurrentPassword == input.NewPassword {
		return ErrNewPasswordSame
	}

	// Set new password (validates length, hashes)
	if err := p.SetPassword(input.NewPassword); err != nil {
		return err
	}

	if err := deps.ProfileStore.Save(ctx, p); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "password_changed", "user_id", input.UserID)
	return nil
}
