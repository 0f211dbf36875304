package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Session type constants.
const (
	TypeGroup    = "group"
	TypeOneOnOne = "one-on-one"
	TypeExtended = "extended"
)

// ValidTypes contains all valid session types.
var ValidTypes = []string{TypeGroup, TypeOneOnOne, TypeExtended}

// Date filter constants for session list views.
const (
	FilterAll       = "all"
	FilterUpcoming  = "upcoming"
	FilterThisWeek  = "this-week"
	FilterThisMonth = "this-month"
)

// Domain errors
var (
	ErrEmptyTitle       = errors.New("session title cannot be empty")
	ErrEmptyDescription = errors.New("session description cannot be empty")
	ErrEmptyDate        = errors.New("session date cannot be empty")
	ErrEmptyTime        = errors.New("session time cannot be empty")
	ErrInvalidType      = errors.New("session type must be one of: group, one-on-one, extended")
	ErrInvalidCapacity  = errors.New("session capacity must be at least 1")
	ErrNegativePrice    = errors.New("session price cannot be negative")
)

// Session represents one bookable mentorship slot.
type Session struct {
	ID          string
	Title       string
	Description string // Markdown content
	Date        string // YYYY-MM-DD format
	Time        string // HH:MM 24-hour format
	Type        string // group, one-on-one, extended
	Price       int    // whole dollars
	Capacity    int
	CreatedAt   time.Time
}

// Validate checks if the Session has valid data.
// PRE: Session struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Session) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(s.Description) == "" {
		return ErrEmptyDescription
	}
	if s.Date == "" {
		return ErrEmptyDate
	}
	if _, err := time.Parse("2006-01-02", s.Date); err != nil {
		return fmt.Errorf("session date must be YYYY-MM-DD: %w", err)
	}
	if s.Time == "" {
		return ErrEmptyTime
	}
	if !isValidType(s.Type) {
		return ErrInvalidType
	}
	if s.Capacity < 1 {
		return ErrInvalidCapacity
	}
	if s.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// DefaultsForType returns the default price and capacity a type selection
// applies before any manual override: group $15/10 spots, one-on-one $25/1,
// extended $50/1. Unknown types fall back to the group defaults.
// INVARIANT: No session state is touched
func DefaultsForType(sessionType string) (price int, capacity int) {
	switch sessionType {
	case TypeOneOnOne:
		return 25, 1
	case TypeExtended:
		return 50, 1
	default:
		return 15, 10
	}
}

// ApplyTypeDefaults sets Type and the matching default price/capacity.
// PRE: sessionType is one of the valid types
// POST: Type, Price, Capacity are set; caller may override Price/Capacity after
func (s *Session) ApplyTypeDefaults(sessionType string) {
	s.Type = sessionType
	s.Price, s.Capacity = DefaultsForType(sessionType)
}

// DisplayType returns the capitalised label for a session type.
// INVARIANT: Session fields are not mutated
func (s *Session) DisplayType() string {
	switch s.Type {
	case TypeOneOnOne:
		return "One-on-One"
	case TypeExtended:
		return "Extended"
	case TypeGroup:
		return "Group"
	}
	return s.Type
}

// DisplayTime converts the stored 24-hour HH:MM time to 12-hour AM/PM form.
// Returns the raw value unchanged when it does not parse.
// INVARIANT: Session fields are not mutated
func (s *Session) DisplayTime() string {
	parts := strings.SplitN(s.Time, ":", 2)
	if len(parts) != 2 {
		return s.Time
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return s.Time
	}
	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:%s %s", hour12, parts[1], ampm)
}

// DisplayDate formats the stored YYYY-MM-DD date for display, e.g. "Mar 14, 2026".
// Returns the raw value unchanged when it does not parse.
// INVARIANT: Session fields are not mutated
func (s *Session) DisplayDate() string {
	d, err := time.Parse("2006-01-02", s.Date)
	if err != nil {
		return s.Date
	}
	return d.Format("Jan 2, 2006")
}

// ParsedDate returns the session date at local midnight.
// POST: Returns zero time when the date does not parse
func (s *Session) ParsedDate() time.Time {
	d, err := time.ParseInLocation("2006-01-02", s.Date, time.Local)
	if err != nil {
		return time.Time{}
	}
	return d
}

// MatchesDateFilter reports whether the session falls inside the named
// window anchored at local midnight of now's day:
//   - upcoming:   date >= today
//   - this-week:  today <= date <= today+7d (both ends inclusive)
//   - this-month: same calendar month and year as today
//
// Any other filter value (including "all") matches everything.
// INVARIANT: Session fields are not mutated
func (s *Session) MatchesDateFilter(filter string, now time.Time) bool {
	d := s.ParsedDate()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch filter {
	case FilterUpcoming:
		return !d.Before(today)
	case FilterThisWeek:
		weekEnd := today.AddDate(0, 0, 7)
		return !d.Before(today) && !d.After(weekEnd)
	case FilterThisMonth:
		return d.Month() == today.Month() && d.Year() == today.Year()
	}
	return true
}

// FilterByDate returns the sessions matching the named date window.
// PRE: sessions is the already-fetched list
// POST: Returns a new slice; input order is preserved
func FilterByDate(sessions []Session, filter string, now time.Time) []Session {
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if s.MatchesDateFilter(filter, now) {
			out = append(out, s)
		}
	}
	return out
}

// FilterByType returns the sessions of the given type; "all" or empty
// returns everything.
// POST: Returns a new slice; input order is preserved
func FilterByType(sessions []Session, sessionType string) []Session {
	if sessionType == "" || sessionType == FilterAll {
		return sessions
	}
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Type == sessionType {
			out = append(out, s)
		}
	}
	return out
}

func isValidType(t string) bool {
	for _, v := range ValidTypes {
		if t == v {
			return true
		}
	}
	return false
}
