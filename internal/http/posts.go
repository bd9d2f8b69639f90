package httpapp

import (
	"net/http"
	"time"

	"github.com/kothahq/kotha-server/internal/auth"
	"github.com/kothahq/kotha-server/internal/model"
	"github.com/kothahq/kotha-server/internal/store"
)

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	page := parseInt64Default(r.URL.Query().Get("page"), 0)
	size := parseInt64Default(r.URL.Query().Get("size"), 10)
	posts, err := s.store.ListPosts(r.Context(), store.PostListOpts{Page: page, Size: size})
	if err != nil {
		s.storeError(w, "list posts", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// handleOwnBlogs lists the caller's own posts, optionally narrowed by
// category and full-text search. The email query param is the declared
// owner and must match the verified identity.
func (s *Server) handleOwnBlogs(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	q := r.URL.Query()
	if !s.authorizeOwner(w, identity, q.Get("email")) {
		return
	}
	posts, err := s.store.ListPostsByFilter(r.Context(), store.PostFilter{
		Owner:    q.Get("email"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
	})
	if err != nil {
		s.storeError(w, "list own blogs", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// Despite the singular route name this returns the whole collection,
// ordered by description length descending.
func (s *Server) handleFeaturedPosts(w http.ResponseWriter, r *http.Request, identity auth.Identity, email string) {
	if !s.authorizeOwner(w, identity, email) {
		return
	}
	posts, err := s.store.ListFeaturedPosts(r.Context(), email)
	if err != nil {
		s.storeError(w, "list featured posts", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleFeaturedHome(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListFeaturedPosts(r.Context(), "")
	if err != nil {
		s.storeError(w, "list featured posts", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request, id string) {
	post, err := s.store.GetPost(r.Context(), id)
	if err != nil {
		s.storeError(w, "get post", err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleBlogsByCategory(w http.ResponseWriter, r *http.Request, name string) {
	posts, err := s.store.ListPostsByCategory(r.Context(), name)
	if err != nil {
		s.storeError(w, "list posts by category", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

type postRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	CreatedBy   string `json:"createdBy"`
}

func (s *Server) handleAddPost(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	if !s.allowRateLimit(w, r, "post", s.cfg.RateLimits.PostPerMinute, identity.Email) {
		return
	}
	var req postRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	post := model.Post{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
		CreatedBy:   req.CreatedBy,
		CreatedAt:   time.Now(),
	}
	id, err := s.store.CreatePost(r.Context(), &post)
	if err != nil {
		s.storeError(w, "create post", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"insertedId": id})
}

type editPostRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Email       string `json:"email"`
}

// handleEditPost sets only the listed fields, with upsert enabled. The
// body's email field declares the owner and is checked before the store
// is touched.
func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request, identity auth.Identity, id string) {
	var req editPostRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !s.authorizeOwner(w, identity, req.Email) {
		return
	}
	res, err := s.store.UpdatePost(r.Context(), id, map[string]any{
		"title":       req.Title,
		"description": req.Description,
		"category":    req.Category,
		"image":       req.Image,
	})
	if err != nil {
		s.storeError(w, "update post", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request, id string) {
	res, err := s.store.DeletePost(r.Context(), id)
	if err != nil {
		s.storeError(w, "delete post", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
