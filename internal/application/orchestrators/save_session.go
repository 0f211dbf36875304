package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"peerpath/internal/domain/session"
)

// SessionStoreForSave defines the session store interface needed by SaveSession.
type SessionStoreForSave interface {
	GetByID(ctx context.Context, id string) (session.Session, error)
	Save(ctx context.Context, s session.Session) error
}

// SaveSessionInput carries input for the session save orchestrator.
// A zero Price together with a zero Capacity means "no override": the
// type's defaults apply. Any explicit value wins.
type SaveSessionInput struct {
	ID          string // empty for create
	Title       string
	Description string
	Date        string
	Time        string
	Type        string
	Price       int
	Capacity    int
}

// SaveSessionDeps holds dependencies for SaveSession.
type SaveSessionDeps struct {
	SessionStore SessionStoreForSave
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSaveSession creates or updates a session.
// PRE: Input fields are form values; Type is one of the valid types
// POST: Session persisted; type defaults applied when price and capacity
// were left untouched
func ExecuteSaveSession(ctx context.Context, input SaveSessionInput, deps SaveSessionDeps) (session.Session, error) {
	genID := deps.GenerateID
	if genID == nil {
		genID = func() string { return uuid.New().String() }
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	s := session.Session{
		ID:          input.ID,
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		Time:        input.Time,
		Type:        input.Type,
		Price:       input.Price,
		Capacity:    input.Capacity,
		CreatedAt:   now(),
	}

	event := "session_updated"
	if s.ID == "" {
		s.ID = genID()
		event = "session_created"
	} else if existing, err := deps.SessionStore.GetByID(ctx, s.ID); err == nil {
		s.CreatedAt = existing.CreatedAt
	}

	if s.Price == 0 && s.Capacity == 0 {
		s.Price, s.Capacity = session.DefaultsForType(s.Type)
	}

	if err := s.Validate(); err != nil {
		return session.Session{}, err
	}
	if err := deps.SessionStore.Save(ctx, s); err != nil {
		return session.Session{}, err
	}

	slog.Info("session_event", "event", event,
		"session_id", s.ID, "type", s.Type, "date", s.Date, "price", s.Price, "capacity", s.Capacity)

	return s, nil
}
