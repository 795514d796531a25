package service

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/storage"
	"github.com/volunteer-hub/internal/types"
)

const (
	icalProdID  = "-//Volunteer Hub//EN"
	icalCalName = "Volunteer Schedule"
	icalDomain  = "volunteer.hub"
)

// CalendarService manages scheduled commitments and exports them as an
// iCalendar document.
type CalendarService struct {
	store storage.Store
}

// NewCalendarService creates a new calendar service
func NewCalendarService(store storage.Store) *CalendarService {
	return &CalendarService{store: store}
}

// CreateEvent validates and persists a new event. A zero EndsAt is derived
// from DurationMinutes.
func (s *CalendarService) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	if event.Title == "" {
		return nil, types.ValidationError("title is required", "title")
	}
	if event.StartsAt.IsZero() {
		return nil, types.ValidationError("start time is required", "startsAt")
	}
	if event.EndsAt.IsZero() {
		minutes := event.DurationMinutes
		if minutes <= 0 {
			minutes = 60
		}
		event.EndsAt = event.StartsAt.Add(time.Duration(minutes) * time.Minute)
	}
	if event.EndsAt.Before(event.StartsAt) {
		return nil, types.ValidationError("end time precedes start time", "endsAt")
	}
	if event.DurationMinutes == 0 {
		event.DurationMinutes = int(event.EndsAt.Sub(event.StartsAt) / time.Minute)
	}
	return s.store.InsertEvent(ctx, event)
}

// List returns the user's events through the optional window filter.
func (s *CalendarService) List(ctx context.Context, filter *models.EventFilter) ([]*models.Event, error) {
	return s.store.ListEvents(ctx, filter)
}

// Update rewrites an event.
func (s *CalendarService) Update(ctx context.Context, event *models.Event) (*models.Event, error) {
	if event.Title == "" {
		return nil, types.ValidationError("title is required", "title")
	}
	if !event.EndsAt.IsZero() && event.EndsAt.Before(event.StartsAt) {
		return nil, types.ValidationError("end time precedes start time", "endsAt")
	}
	return s.store.UpdateEvent(ctx, event)
}

// Delete removes an event.
func (s *CalendarService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteEvent(ctx, id)
}

// ExportICS renders events as one VCALENDAR. Events appear in the order
// given, one VEVENT each, with a stable UID derived from the event id.
func (s *CalendarService) ExportICS(events []*models.Event) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:" + icalProdID + "\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:PUBLISH\r\n")
	b.WriteString("X-WR-CALNAME:" + icalCalName + "\r\n")

	for _, event := range events {
		writeVEvent(&b, event)
	}

	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

// ExportUserICS loads the user's events and renders them.
func (s *CalendarService) ExportUserICS(ctx context.Context, filter *models.EventFilter) (string, error) {
	events, err := s.store.ListEvents(ctx, filter)
	if err != nil {
		return "", err
	}
	return s.ExportICS(events), nil
}

func writeVEvent(b *strings.Builder, event *models.Event) {
	b.WriteString("BEGIN:VEVENT\r\n")
	b.WriteString("UID:" + event.ID + "@" + icalDomain + "\r\n")
	b.WriteString("DTSTAMP:" + icalTime(event.CreatedAt) + "\r\n")
	b.WriteString("DTSTART:" + icalTime(event.StartsAt) + "\r\n")
	b.WriteString("DTEND:" + icalTime(event.EndsAt) + "\r\n")
	b.WriteString("SUMMARY:" + icalEscape(event.Title) + "\r\n")
	if event.Description != "" {
		b.WriteString("DESCRIPTION:" + icalEscape(event.Description) + "\r\n")
	}
	if event.Location != "" {
		b.WriteString("LOCATION:" + icalEscape(event.Location) + "\r\n")
	}

	if event.ReminderMinutes > 0 {
		b.WriteString("BEGIN:VALARM\r\n")
		b.WriteString("ACTION:DISPLAY\r\n")
		b.WriteString("DESCRIPTION:Reminder\r\n")
		b.WriteString("TRIGGER:-PT" + strconv.Itoa(event.ReminderMinutes) + "M\r\n")
		b.WriteString("END:VALARM\r\n")
	}

	b.WriteString("END:VEVENT\r\n")
}

// icalTime renders a UTC timestamp in the basic iCalendar form.
func icalTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// icalEscape escapes the characters iCalendar treats as structural.
func icalEscape(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, ",", `\,`)
	v = strings.ReplaceAll(v, ";", `\;`)
	v = strings.ReplaceAll(v, "\n", `\n`)
	return v
}

// GoogleCalendarURL builds an add-to-calendar link for one event.
func GoogleCalendarURL(event *models.Event) string {
	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", event.Title)
	params.Set("dates", icalTime(event.StartsAt)+"/"+icalTime(event.EndsAt))
	if event.Description != "" {
		params.Set("details", event.Description)
	}
	if event.Location != "" {
		params.Set("location", event.Location)
	}
	return "https://calendar.google.com/calendar/render?" + params.Encode()
}
