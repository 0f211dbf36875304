package contact

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyName    = errors.New("name is required")
	ErrEmptyEmail   = errors.New("email is required")
	ErrInvalidEmail = errors.New("email address is not valid")
	ErrEmptySubject = errors.New("subject is required")
	ErrEmptyMessage = errors.New("message is required")
)

// Message is a contact form submission from the public site.
type Message struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Body      string
	CreatedAt time.Time
}

// Validate checks that all required fields are present.
// PRE: Message struct is populated from form input
// POST: Returns nil if valid, the first failing field's error otherwise
func (m *Message) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(m.Email) == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(m.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(m.Subject) == "" {
		return ErrEmptySubject
	}
	if strings.TrimSpace(m.Body) == "" {
		return ErrEmptyMessage
	}
	return nil
}
