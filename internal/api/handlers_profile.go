package api

import (
	"net/http"

	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/types"
)

// handleGetProfile returns the session user's profile. A user who has
// never saved one gets an empty profile, not a 404.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.GetProfile(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// handleUpdateProfile merges the submitted fields into the stored profile.
// Absent fields keep their stored values.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update models.ProfileUpdate
	if err := parseJSONBody(r, &update); err != nil {
		respondError(w, http.StatusBadRequest, types.CodeValidation, "invalid request body", nil)
		return
	}

	profile, err := s.store.UpdateProfile(r.Context(), &update)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}
