package service

import (
	"testing"
	"time"

	"github.com/volunteer-hub/internal/logging"
	"github.com/volunteer-hub/internal/models"
)

func newTestScheduler(notify ReminderFunc) *ReminderScheduler {
	return NewReminderScheduler(logging.NewLogger(logging.LevelError, logging.FormatJSON), notify)
}

func TestScheduleArmsTimer(t *testing.T) {
	s := newTestScheduler(nil)
	defer s.Stop()

	armed := s.Schedule(&models.Event{
		ID:              "evt-1",
		Title:           "Shift",
		StartsAt:        time.Now().Add(2 * time.Hour),
		ReminderMinutes: 30,
	})
	if !armed {
		t.Fatal("Expected reminder to be armed")
	}
	if s.Pending() != 1 {
		t.Errorf("Expected 1 pending timer, got %d", s.Pending())
	}
}

func TestScheduleSkipsNoReminder(t *testing.T) {
	s := newTestScheduler(nil)
	defer s.Stop()

	if s.Schedule(&models.Event{ID: "evt-1", StartsAt: time.Now().Add(time.Hour)}) {
		t.Error("Expected no timer for zero reminder lead time")
	}
	if s.Schedule(&models.Event{
		ID:              "evt-2",
		StartsAt:        time.Now().Add(time.Minute),
		ReminderMinutes: 30, // fire moment already passed
	}) {
		t.Error("Expected no timer for a passed reminder moment")
	}
	if s.Pending() != 0 {
		t.Errorf("Expected 0 pending timers, got %d", s.Pending())
	}
}

func TestScheduleReplacesExistingTimer(t *testing.T) {
	s := newTestScheduler(nil)
	defer s.Stop()

	event := &models.Event{
		ID:              "evt-1",
		StartsAt:        time.Now().Add(2 * time.Hour),
		ReminderMinutes: 30,
	}
	s.Schedule(event)
	s.Schedule(event)

	if s.Pending() != 1 {
		t.Errorf("Expected rescheduling to replace the timer, got %d pending", s.Pending())
	}
}

func TestCancelDisarms(t *testing.T) {
	s := newTestScheduler(nil)
	defer s.Stop()

	s.Schedule(&models.Event{
		ID:              "evt-1",
		StartsAt:        time.Now().Add(2 * time.Hour),
		ReminderMinutes: 30,
	})
	s.Cancel("evt-1")
	s.Cancel("unknown") // no-op

	if s.Pending() != 0 {
		t.Errorf("Expected 0 pending timers after cancel, got %d", s.Pending())
	}
}

func TestReminderFires(t *testing.T) {
	fired := make(chan *models.Event, 1)
	s := newTestScheduler(func(event *models.Event) {
		fired <- event
	})
	defer s.Stop()

	// StartsAt one minute plus a sliver out so the timer fires almost
	// immediately with a 1-minute lead.
	armed := s.Schedule(&models.Event{
		ID:              "evt-1",
		Title:           "Shift",
		StartsAt:        time.Now().Add(time.Minute + 50*time.Millisecond),
		ReminderMinutes: 1,
	})
	if !armed {
		t.Fatal("Expected reminder to be armed")
	}

	select {
	case event := <-fired:
		if event.ID != "evt-1" || event.Title != "Shift" {
			t.Errorf("Unexpected event in notification: %+v", event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Reminder did not fire")
	}

	if s.Pending() != 0 {
		t.Errorf("Expected fired timer to be removed, got %d pending", s.Pending())
	}
}

func TestStopDisarmsAll(t *testing.T) {
	s := newTestScheduler(nil)

	for _, id := range []string{"a", "b", "c"} {
		s.Schedule(&models.Event{
			ID:              id,
			StartsAt:        time.Now().Add(2 * time.Hour),
			ReminderMinutes: 15,
		})
	}
	s.Stop()

	if s.Pending() != 0 {
		t.Errorf("Expected all timers disarmed, got %d", s.Pending())
	}
}
