package orchestrators

import (
	"context"
	"log/slog"
	"time"
)

// UpdateNotesInput carries input for the booking notes orchestrator.
type UpdateNotesInput struct {
	BookingID string
	Notes     string
}

// UpdateNotesDeps holds dependencies for UpdateNotes.
type UpdateNotesDeps struct {
	BookingStore BookingStoreForAttendance
	Now          func() time.Time
}

// ExecuteUpdateNotes replaces the admin-authored notes on a booking.
// PRE: BookingID is non-empty; Notes may be empty (clears them)
// POST: Notes stored with notes_updated_at set to now
func ExecuteUpdateNotes(ctx context.Context, input UpdateNotesInput, deps UpdateNotesDeps) error {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	b, err := deps.BookingStore.GetByID(ctx, input.BookingID)
	if err != nil {
		return ErrBookingGone
	}

	b.Notes = input.Notes
	b.NotesUpdatedAt = now()
	if err := deps.BookingStore.Save(ctx, b); err != nil {
		return err
	}

	slog.Info("booking_event", "event", "notes_updated", "booking_id", b.ID)
	return nil
}
