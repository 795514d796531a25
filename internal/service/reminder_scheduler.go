package service

import (
	"sync"
	"time"

	"github.com/volunteer-hub/internal/logging"
	"github.com/volunteer-hub/internal/models"
)

// ReminderFunc is invoked when a reminder fires.
type ReminderFunc func(event *models.Event)

// ReminderScheduler arms one-shot in-process timers for event reminders.
// Timers live only for the life of the process; nothing is persisted and
// nothing is rearmed on restart.
type ReminderScheduler struct {
	logger *logging.Logger
	notify ReminderFunc

	mu     sync.Mutex
	timers map[string]*time.Timer // keyed by event id
}

// NewReminderScheduler creates a new reminder scheduler
func NewReminderScheduler(logger *logging.Logger, notify ReminderFunc) *ReminderScheduler {
	return &ReminderScheduler{
		logger: logger,
		notify: notify,
		timers: make(map[string]*time.Timer),
	}
}

// Schedule arms a reminder for the event. An event with no reminder lead
// time, or whose reminder moment has already passed, arms nothing.
// Rescheduling an event replaces its existing timer.
func (s *ReminderScheduler) Schedule(event *models.Event) bool {
	if event.ReminderMinutes <= 0 {
		return false
	}

	fireAt := event.StartsAt.Add(-time.Duration(event.ReminderMinutes) * time.Minute)
	delay := time.Until(fireAt)
	if delay <= 0 {
		s.logger.WithField("eventId", event.ID).Debug("Reminder moment already passed, not arming")
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[event.ID]; ok {
		existing.Stop()
	}

	id := event.ID
	ev := *event
	s.timers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()

		s.logger.WithFields(map[string]interface{}{
			"eventId": id,
			"title":   ev.Title,
		}).Info("Reminder fired")
		if s.notify != nil {
			s.notify(&ev)
		}
	})
	return true
}

// Cancel disarms the reminder for an event id. Unknown ids are a no-op.
func (s *ReminderScheduler) Cancel(eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[eventID]; ok {
		timer.Stop()
		delete(s.timers, eventID)
	}
}

// Pending reports how many timers are currently armed.
func (s *ReminderScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop disarms every timer. Used at shutdown.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}
