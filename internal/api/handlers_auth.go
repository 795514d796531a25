package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/volunteer-hub/internal/auth"
	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/types"
)

// demoSignInRequest is the body for demo logins.
type demoSignInRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// sessionResponse carries the signed-in user plus a session token the
// client replays as a bearer credential.
type sessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token,omitempty"`
	Mode  string       `json:"mode"`
}

// handleProviderSignIn returns the hosted OAuth redirect URL for the named
// provider. The actual flow happens on the hosted service.
func (s *Server) handleProviderSignIn(w http.ResponseWriter, r *http.Request) {
	provider := mux.Vars(r)["name"]

	redirectURL, err := s.bridge.SignInWithProvider(provider)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"provider": provider,
		"url":      redirectURL,
	})
}

// handleDemoSignIn starts a demo session from a name and email.
func (s *Server) handleDemoSignIn(w http.ResponseWriter, r *http.Request) {
	var req demoSignInRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, types.CodeValidation, "invalid request body", nil)
		return
	}

	user, err := s.bridge.SignInDemo(req.Name, req.Email)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token, err := s.bridge.IssueToken()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &sessionResponse{
		User:  user,
		Token: token,
		Mode:  string(s.store.Mode()),
	})
}

// handleSession reports the user this request authenticated as (bearer
// token, or the local-mode session), or 401 when signed out.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, types.CodeUnauthenticated, "no active session", nil)
		return
	}

	respondJSON(w, http.StatusOK, &sessionResponse{
		User: user,
		Mode: string(s.store.Mode()),
	})
}

// handleSignOut ends the current session.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.bridge.SignOut(); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"signedOut": true})
}
