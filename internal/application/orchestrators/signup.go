package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"peerpath/internal/domain/profile"
)

// SignupInput carries input for the signup orchestrator.
type SignupInput struct {
	FullName string
	Email    string
	Password string
	Phone    string
	School   string
	Grade    string
}

// SignupResult carries the created profile info for session creation.
type SignupResult struct {
	UserID   string
	Email    string
	FullName string
	Role     string
}

// SignupDeps holds dependencies for Signup.
type SignupDeps struct {
	ProfileStore ProfileStoreForLogin
}

var ErrEmailTaken = errors.New("an account with that email already exists")

// ExecuteSignup creates a new student profile with hashed credentials.
// PRE: FullName, Email, Password provided
// POST: Profile persisted with role student; password stored as bcrypt hash
// INVARIANT: Email is unique across profiles
func ExecuteSignup(ctx context.Context, input SignupInput, deps SignupDeps) (SignupResult, error) {
	_, err := deps.ProfileStore.GetByEmail(ctx, input.Email)
	if err == nil {
		return SignupResult{}, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return SignupResult{}, err
	}

	p := profile.Profile{
		ID:         uuid.New().String(),
		FullName:   input.FullName,
		Email:      input.Email,
		Phone:      input.Phone,
		School:     input.School,
		GradeLevel: input.Grade,
		Role:       profile.RoleStudent,
		CreatedAt:  time.Now(),
	}
	if err := p.SetPassword(input.Password); err != nil {
		return SignupResult{}, err
	}
	if err := p.Validate(); err != nil {
		return SignupResult{}, err
	}

	if err := deps.ProfileStore.Save(ctx, p); err != nil {
		return SignupResult{}, err
	}

	slog.Info("auth_event", "event", "signup", "email", p.Email, "user_id", p.ID)

	return SignupResult{UserID: p.ID, Email: p.Email, FullName: p.FullName, Role: p.Role}, nil
}
