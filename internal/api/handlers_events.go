package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/types"
)

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := eventFilterFromQuery(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	events, err := s.calendarService.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var event models.Event
	if err := parseJSONBody(r, &event); err != nil {
		respondError(w, http.StatusBadRequest, types.CodeValidation, "invalid request body", nil)
		return
	}

	created, err := s.calendarService.CreateEvent(r.Context(), &event)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// Arm an in-process reminder; it is not persisted across restarts.
	if s.reminders != nil {
		s.reminders.Schedule(created)
	}

	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var event models.Event
	if err := parseJSONBody(r, &event); err != nil {
		respondError(w, http.StatusBadRequest, types.CodeValidation, "invalid request body", nil)
		return
	}
	event.ID = mux.Vars(r)["id"]

	updated, err := s.calendarService.Update(r.Context(), &event)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if s.reminders != nil {
		s.reminders.Cancel(updated.ID)
		s.reminders.Schedule(updated)
	}

	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.calendarService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	if s.reminders != nil {
		s.reminders.Cancel(id)
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleEventsExportICS(w http.ResponseWriter, r *http.Request) {
	filter, err := eventFilterFromQuery(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	ics, err := s.calendarService.ExportUserICS(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Content-Disposition", `attachment; filename="volunteer_schedule.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(ics))
}

func eventFilterFromQuery(r *http.Request) (*models.EventFilter, error) {
	filter := &models.EventFilter{}
	q := r.URL.Query()

	if from := q.Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return nil, types.ValidationError("from must be RFC3339", "from")
		}
		filter.From = t
	}
	if to := q.Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return nil, types.ValidationError("to must be RFC3339", "to")
		}
		filter.To = t
	}
	return filter, nil
}
