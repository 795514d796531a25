package models

import "time"

// Event represents a scheduled volunteer commitment owned by one user.
type Event struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"userId" db:"user_id"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description,omitempty" db:"description"`
	Organization    string    `json:"organization,omitempty" db:"organization"`
	Location        string    `json:"location,omitempty" db:"location"`
	StartsAt        time.Time `json:"startsAt" db:"starts_at"`
	EndsAt          time.Time `json:"endsAt" db:"ends_at"`
	DurationMinutes int       `json:"durationMinutes,omitempty" db:"duration_minutes"`
	ReminderMinutes int       `json:"reminderMinutes,omitempty" db:"reminder_minutes"` // lead time before start; 0 = no reminder
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// EventFilter narrows an event listing by a start-time range.
type EventFilter struct {
	From time.Time // inclusive; zero means unbounded
	To   time.Time // inclusive; zero means unbounded
}

// Matches reports whether the event starts within the filter window.
func (f *EventFilter) Matches(e *Event) bool {
	if !f.From.IsZero() && e.StartsAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.StartsAt.After(f.To) {
		return false
	}
	return true
}
