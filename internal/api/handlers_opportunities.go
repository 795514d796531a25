package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/volunteer-hub/internal/auth"
	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/types"
)

// handleListOpportunities serves the public directory. No authentication
// is required; only active rows are ever returned.
func (s *Server) handleListOpportunities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &models.OpportunityFilter{
		CauseArea: q.Get("cause"),
	}
	if v := q.Get("virtual"); v != "" {
		virtual, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, types.CodeValidation, "virtual must be a boolean", nil)
			return
		}
		filter.IsVirtual = &virtual
	}
	if l := q.Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, types.CodeValidation, "limit must be a non-negative integer", nil)
			return
		}
		filter.Limit = limit
	}

	opps, err := s.directory.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"opportunities": opps,
		"count":         len(opps),
	})
}

func (s *Server) handleGetOpportunity(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	opp, err := s.directory.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if opp == nil {
		respondError(w, http.StatusNotFound, types.CodeNotFound, "opportunity not found: "+id, nil)
		return
	}
	respondJSON(w, http.StatusOK, opp)
}

func (s *Server) handleListRecommendations(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, types.CodeUnauthenticated, "sign in to see recommendations", nil)
		return
	}
	if s.recommendations == nil {
		// Local mode has no backend to score against.
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"recommendations": []*models.Recommendation{},
			"count":           0,
		})
		return
	}

	recs, err := s.recommendations.ListForUser(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recs,
		"count":           len(recs),
	})
}

func (s *Server) handleDismissRecommendation(w http.ResponseWriter, r *http.Request) {
	s.mutateRecommendation(w, r, func(userID, id string) error {
		return s.recommendations.Dismiss(r.Context(), userID, id)
	})
}

func (s *Server) handleSaveRecommendation(w http.ResponseWriter, r *http.Request) {
	s.mutateRecommendation(w, r, func(userID, id string) error {
		return s.recommendations.Save(r.Context(), userID, id)
	})
}

func (s *Server) handleUnsaveRecommendation(w http.ResponseWriter, r *http.Request) {
	s.mutateRecommendation(w, r, func(userID, id string) error {
		return s.recommendations.Unsave(r.Context(), userID, id)
	})
}

func (s *Server) mutateRecommendation(w http.ResponseWriter, r *http.Request, fn func(userID, id string) error) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, types.CodeUnauthenticated, "sign in to manage recommendations", nil)
		return
	}
	if s.recommendations == nil {
		respondError(w, http.StatusNotFound, types.CodeNotFound, "recommendations are unavailable in local mode", nil)
		return
	}

	id := mux.Vars(r)["id"]
	if err := fn(user.ID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"updated": id})
}
