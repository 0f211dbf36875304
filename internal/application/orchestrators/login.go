package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"peerpath/internal/domain/profile"
)

// ProfileStoreForLogin defines the store interface needed by Login.
type ProfileStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	UserID   string
	Email    string
	FullName string
	Role     string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	ProfileStore ProfileStoreForLogin
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
)

// ExecuteLogin validates credentials and returns profile info for session creation.
// PRE: Valid email and password provided
// POST: Returns profile info on success, records failed login on failure
// INVARIANT: Profile must not be locked
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Email == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	p, err := deps.ProfileStore.GetByEmail(ctx, input.Email)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}

	if p.IsLocked() {
		slog.Info("auth_event", "event", "login_blocked", "email", input.Email, "reason", "locked")
		return LoginResult{}, ErrAccountLocked
	}

	if err := p.CheckPassword(input.Password); err != nil {
		p.RecordFailedLogin()
		_ = deps.ProfileStore.Save(ctx, p)
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "reason", "wrong_password", "failed_logins", p.FailedLogins)
		return LoginResult{}, ErrInvalidCredentials
	}

	p.ResetFailedLogins()
	_ = deps.ProfileStore.Save(ctx, p)

	slog.Info("auth_event", "event", "login_success", "email", input.Email, "role", p.Role)

	return LoginResult{
		UserID:   p.ID,
		Email:    p.Email,
		FullName: p.FullName,
		Role:     p.Role,
	}, nil
}
