package httpapp

import (
	"errors"
	"net/http"
	"time"
)

type userRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
	Role  string `json:"role"`
}

// handleUpsertUser serves both add-user and edit-user: an upsert keyed by
// the body email, setting exactly five fields. lastLogin is server time;
// the rest come from the request.
func (s *Server) handleUpsertUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, errors.New("email required"))
		return
	}
	res, err := s.store.UpsertUser(r.Context(), req.Email, map[string]any{
		"name":      req.Name,
		"email":     req.Email,
		"photo":     req.Photo,
		"role":      req.Role,
		"lastLogin": time.Now(),
	})
	if err != nil {
		s.storeError(w, "upsert user", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
