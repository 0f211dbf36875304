package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"peerpath/internal/domain/profile"
)

// ProfileStoreForUpdate defines the store interface needed by UpdateProfile.
type ProfileStoreForUpdate interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
}

// UpdateProfileInput carries the student-editable profile fields.
type UpdateProfileInput struct {
	UserID        string
	FullName      string
	Phone         string
	ParentContact string
	GradeLevel    string
	School        string
}

// UpdateProfileDeps holds dependencies for UpdateProfile.
type UpdateProfileDeps struct {
	ProfileStore ProfileStoreForUpdate
}

var ErrProfileGone = errors.New("profile not found")

// ExecuteUpdateProfile saves a student's own profile details. Email,
// role, and credentials are not touched here.
// PRE: UserID identifies an existing profile
// POST: Editable fields replaced; identity fields unchanged
func ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput, deps UpdateProfileDeps) error {
	p, err := deps.ProfileStore.GetByID(ctx, input.UserID)
	if err != nil {
		return ErrProfileGone
	}

	p.FullName = input.FullName
	p.Phone = input.Phone
	p.ParentContact = input.ParentContact
	p.GradeLevel = input.GradeLevel
	p.School = input.School

	if err := p.Validate(); err != nil {
		return err
	}
	if err := deps.ProfileStore.Save(ctx, p); err != nil {
		return err
	}

	slog.Info("profile_event", "event", "profile_updated", "user_id", p.ID)
	return nil
}
