package httpapp

import (
	"net/http"
	"time"

	"github.com/kothahq/kotha-server/internal/auth"
	"github.com/kothahq/kotha-server/internal/model"
)

func (s *Server) handleWishlist(w http.ResponseWriter, r *http.Request, identity auth.Identity, email string) {
	if !s.authorizeOwner(w, identity, email) {
		return
	}
	items, err := s.store.ListWishlist(r.Context(), email)
	if err != nil {
		s.storeError(w, "list wishlist", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Clients resend the post document wholesale, so the body is decoded
// leniently: extra fields (description, createdAt, any _id) are ignored
// and the store assigns a fresh id, meaning replays insert distinct
// records.
type wishlistRequest struct {
	PostID   string `json:"postId"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Image    string `json:"image"`
	User     string `json:"user"`
}

func (s *Server) handleAddToWishlist(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	var req wishlistRequest
	if err := readJSONLoose(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	item := model.WishlistItem{
		PostID:    req.PostID,
		Title:     req.Title,
		Category:  req.Category,
		Image:     req.Image,
		User:      req.User,
		CreatedAt: time.Now(),
	}
	id, err := s.store.AddWishlistItem(r.Context(), &item)
	if err != nil {
		s.storeError(w, "add wishlist item", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"insertedId": id})
}

func (s *Server) handleDeleteFromWishlist(w http.ResponseWriter, r *http.Request, id string) {
	res, err := s.store.DeleteWishlistItem(r.Context(), id)
	if err != nil {
		s.storeError(w, "delete wishlist item", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
