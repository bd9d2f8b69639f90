package httpapp

import (
	"net/http"

	"github.com/kothahq/kotha-server/internal/model"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		s.storeError(w, "list categories", err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request, id string) {
	category, err := s.store.GetCategory(r.Context(), id)
	if err != nil {
		s.storeError(w, "get category", err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id, err := s.store.CreateCategory(r.Context(), &model.Category{Name: req.Name})
	if err != nil {
		s.storeError(w, "create category", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"insertedId": id})
}

// Category updates are plain $set, no upsert.
func (s *Server) handleEditCategory(w http.ResponseWriter, r *http.Request, id string) {
	var req categoryRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := s.store.UpdateCategory(r.Context(), id, map[string]any{"name": req.Name})
	if err != nil {
		s.storeError(w, "update category", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request, id string) {
	res, err := s.store.DeleteCategory(r.Context(), id)
	if err != nil {
		s.storeError(w, "delete category", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
