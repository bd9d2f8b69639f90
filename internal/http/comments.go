package httpapp

import (
	"net/http"
	"time"

	"github.com/kothahq/kotha-server/internal/auth"
	"github.com/kothahq/kotha-server/internal/model"
)

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.store.ListCommentsByPost(r.Context(), r.URL.Query().Get("postId"))
	if err != nil {
		s.storeError(w, "list comments", err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handleGetComment(w http.ResponseWriter, r *http.Request, id string) {
	comment, err := s.store.GetComment(r.Context(), id)
	if err != nil {
		s.storeError(w, "get comment", err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

type commentRequest struct {
	PostID  string `json:"postId"`
	Comment string `json:"comment"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	if !s.allowRateLimit(w, r, "comment", s.cfg.RateLimits.CommentPerMinute, identity.Email) {
		return
	}
	var req commentRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	comment := model.Comment{
		PostID:    req.PostID,
		Comment:   req.Comment,
		Email:     req.Email,
		Name:      req.Name,
		CreatedAt: time.Now(),
	}
	id, err := s.store.CreateComment(r.Context(), &comment)
	if err != nil {
		s.storeError(w, "create comment", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"insertedId": id})
}

type editCommentRequest struct {
	Comment string `json:"comment"`
}

// Comment updates are plain $set, no upsert.
func (s *Server) handleEditComment(w http.ResponseWriter, r *http.Request, id string) {
	var req editCommentRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := s.store.UpdateComment(r.Context(), id, map[string]any{"comment": req.Comment})
	if err != nil {
		s.storeError(w, "update comment", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
