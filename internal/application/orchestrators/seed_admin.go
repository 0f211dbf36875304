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

// SeedAdminDeps holds dependencies for the admin seed.
type SeedAdminDeps struct {
	ProfileStore ProfileStoreForLogin
}

// ExecuteSeedAdmin creates the admin profile if no profile exists for the
// given email. Idempotent: a second run with the same email is a no-op.
// PRE: email and password non-empty
// POST: a profile with role admin exists for email
func ExecuteSeedAdmin(ctx context.Context, deps SeedAdminDeps, email, password string) error {
	if email == "" || password == "" {
		return errors.New("admin email and password are required")
	}

	_, err := deps.ProfileStore.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	p := profile.Profile{
		ID:        uuid.New().String(),
		FullName:  "PeerPath Admin",
		Email:     email,
		Role:      profile.RoleAdmin,
		CreatedAt: time.Now(),
	}
	if err := p.SetPassword(password); err != nil {
		return err
	}
	if err := deps.ProfileStore.Save(ctx, p); err != nil {
		return err
	}

	slog.Info("seed_event", "event", "admin_seeded", "email", email)
	return nil
}
