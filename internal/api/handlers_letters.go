package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/service"
	"github.com/volunteer-hub/internal/types"
)

// generateLetterRequest wraps the generation context plus a save flag.
type generateLetterRequest struct {
	service.LetterContext
	Save bool `json:"save"`
}

// generateLetterResponse returns the generated content and, when saved,
// the stored draft.
type generateLetterResponse struct {
	Letter    *models.Letter           `json:"letter,omitempty"`
	Generated *service.GeneratedLetter `json:"generated"`
}

func (s *Server) handleGenerateLetter(w http.ResponseWriter, r *http.Request) {
	var req generateLetterRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, types.CodeValidation, "invalid request body", nil)
		return
	}
	if req.Type == "" {
		respondError(w, http.StatusBadRequest, types.CodeValidation, "letter type is required", nil)
		return
	}

	if !req.Save {
		respondJSON(w, http.StatusOK, &generateLetterResponse{
			Generated: s.letterService.Generate(&req.LetterContext),
		})
		return
	}

	letter, generated, err := s.letterService.GenerateAndSave(r.Context(), &req.LetterContext)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, &generateLetterResponse{
		Letter:    letter,
		Generated: generated,
	})
}

func (s *Server) handleListLetters(w http.ResponseWriter, r *http.Request) {
	letters, err := s.letterService.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"letters": letters,
		"count":   len(letters),
	})
}

func (s *Server) handleUpdateLetter(w http.ResponseWriter, r *http.Request) {
	var letter models.Letter
	if err := parseJSONBody(r, &letter); err != nil {
		respondError(w, http.StatusBadRequest, types.CodeValidation, "invalid request body", nil)
		return
	}
	letter.ID = mux.Vars(r)["id"]

	updated, err := s.letterService.Update(r.Context(), &letter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteLetter(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.letterService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.store.ListApplications(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"applications": apps,
		"count":        len(apps),
	})
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var app models.Application
	if err := parseJSONBody(r, &app); err != nil {
		respondError(w, http.StatusBadRequest, types.CodeValidation, "invalid request body", nil)
		return
	}

	created, err := s.store.InsertApplication(r.Context(), &app)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	var app models.Application
	if err := parseJSONBody(r, &app); err != nil {
		respondError(w, http.StatusBadRequest, types.CodeValidation, "invalid request body", nil)
		return
	}
	app.ID = mux.Vars(r)["id"]

	updated, err := s.store.UpdateApplication(r.Context(), &app)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
