package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"peerpath/internal/adapters/email"
	"peerpath/internal/domain/contact"
)

// ContactStore defines the store interface needed by SubmitContact.
type ContactStore interface {
	Save(ctx context.Context, m contact.Message) error
}

// SubmitContactInput carries the public contact form fields.
type SubmitContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// SubmitContactDeps holds dependencies for SubmitContact.
type SubmitContactDeps struct {
	ContactStore ContactStore
	EmailSender  email.Sender // nil disables the relay
	RelayTo      string       // inbox the form forwards to
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSubmitContact stores a contact form submission and relays it by
// email. The message is persisted before the relay, so a send failure
// never loses a submission.
// PRE: All four form fields are provided
// POST: Message stored; relay attempted when a sender is configured
func ExecuteSubmitContact(ctx context.Context, input SubmitContactInput, deps SubmitContactDeps) error {
	genID := deps.GenerateID
	if genID == nil {
		genID = func() string { return uuid.New().String() }
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	m := contact.Message{
		ID:        genID(),
		Name:      input.Name,
		Email:     input.Email,
		Subject:   input.Subject,
		Body:      input.Message,
		CreatedAt: now(),
	}
	if err := m.Validate(); err != nil {
		return err
	}

	if err := deps.ContactStore.Save(ctx, m); err != nil {
		return err
	}
	slog.Info("contact_event", "event", "message_received", "message_id", m.ID, "email", m.Email)

	if deps.EmailSender == nil || deps.RelayTo == "" {
		return nil
	}

	body := fmt.Sprintf(
		"<p><strong>From:</strong> %s &lt;%s&gt;</p><p>%s</p>",
		html.EscapeString(m.Name), html.EscapeString(m.Email), html.EscapeString(m.Body))

	_, err := deps.EmailSender.Send(ctx, email.SendRequest{
		To:      []string{deps.RelayTo},
		Subject: "Contact form: " + m.Subject,
		HTML:    body,
		ReplyTo: m.Email,
	})
	if err != nil {
		// Already stored; surface the relay failure to the caller so the
		// form can warn the visitor.
		return fmt.Errorf("message saved but email relay failed: %w", err)
	}

	return nil
}
