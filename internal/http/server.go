// Package httpapp provides the Kotha HTTP server: a REST API over the
// document store for posts, categories, comments, users and wishlists,
// gated by cookie-based JWT authentication on selected routes.
package httpapp

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/kothahq/kotha-server/internal/auth"
	"github.com/kothahq/kotha-server/internal/config"
	"github.com/kothahq/kotha-server/internal/rate"
	"github.com/kothahq/kotha-server/internal/store"
)

// errInternal is the only message 500 responses carry; the real error
// stays in the server log.
var errInternal = errors.New("internal server error")

type Server struct {
	store   store.Store
	tokens  *auth.Service
	limiter rate.Limiter
	cfg     config.Config
	logger  *slog.Logger
}

func NewServer(st store.Store, tokens *auth.Service, limiter rate.Limiter, cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: st, tokens: tokens, limiter: limiter, cfg: cfg, logger: logger}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.applyCORS(w, r) {
		return
	}

	seg := splitPath(r.URL.Path)
	if len(seg) == 0 {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Kotha Server is running"))
		return
	}

	s.route(w, r, seg)
}

// route dispatches each (method, path) pair. Whether a route passes
// through the access guard is declared here, next to the route itself,
// rather than inside individual handlers.
func (s *Server) route(w http.ResponseWriter, r *http.Request, seg []string) {
	switch {
	// Public read surface.
	case len(seg) == 1 && seg[0] == "categories":
		if r.Method == http.MethodGet {
			s.handleListCategories(w, r)
			return
		}
	case len(seg) == 2 && seg[0] == "category":
		if r.Method == http.MethodGet {
			s.handleGetCategory(w, r, seg[1])
			return
		}
	case len(seg) == 2 && seg[0] == "blog-by-category":
		if r.Method == http.MethodGet {
			s.handleBlogsByCategory(w, r, seg[1])
			return
		}
	case len(seg) == 1 && seg[0] == "all-post":
		if r.Method == http.MethodGet {
			s.handleListPosts(w, r)
			return
		}
	case len(seg) == 2 && seg[0] == "post":
		if r.Method == http.MethodGet {
			s.handleGetPost(w, r, seg[1])
			return
		}
	case len(seg) == 1 && seg[0] == "comments":
		if r.Method == http.MethodGet {
			s.handleListComments(w, r)
			return
		}
	case len(seg) == 2 && seg[0] == "comment":
		if r.Method == http.MethodGet {
			s.handleGetComment(w, r, seg[1])
			return
		}
	case len(seg) == 1 && seg[0] == "dashboard-count":
		if r.Method == http.MethodGet {
			s.handleDashboardCount(w, r)
			return
		}
	case len(seg) == 1 && seg[0] == "featured-post-home":
		if r.Method == http.MethodGet {
			s.handleFeaturedHome(w, r)
			return
		}

	// Guarded, owner-checked reads.
	case len(seg) == 1 && seg[0] == "all-blogs":
		if r.Method == http.MethodGet {
			if identity, ok := s.requireAuth(w, r); ok {
				s.handleOwnBlogs(w, r, identity)
			}
			return
		}
	case len(seg) == 2 && seg[0] == "featured-post":
		if r.Method == http.MethodGet {
			if identity, ok := s.requireAuth(w, r); ok {
				s.handleFeaturedPosts(w, r, identity, seg[1])
			}
			return
		}
	case len(seg) == 2 && seg[0] == "get-wish-list":
		if r.Method == http.MethodGet {
			if identity, ok := s.requireAuth(w, r); ok {
				s.handleWishlist(w, r, identity, seg[1])
			}
			return
		}

	// Guarded mutations.
	case len(seg) == 1 && seg[0] == "add-post":
		if r.Method == http.MethodPost {
			if identity, ok := s.requireAuth(w, r); ok {
				s.handleAddPost(w, r, identity)
			}
			return
		}
	case len(seg) == 2 && seg[0] == "edit-post":
		if r.Method == http.MethodPut {
			if identity, ok := s.requireAuth(w, r); ok {
				s.handleEditPost(w, r, identity, seg[1])
			}
			return
		}
	case len(seg) == 2 && seg[0] == "delete-post":
		if r.Method == http.MethodDelete {
			if _, ok := s.requireAuth(w, r); ok {
				s.handleDeletePost(w, r, seg[1])
			}
			return
		}
	case len(seg) == 1 && seg[0] == "add-category":
		if r.Method == http.MethodPost {
			if _, ok := s.requireAuth(w, r); ok {
				s.handleAddCategory(w, r)
			}
			return
		}
	case len(seg) == 2 && seg[0] == "edit-category":
		if r.Method == http.MethodPut {
			if _, ok := s.requireAuth(w, r); ok {
				s.handleEditCategory(w, r, seg[1])
			}
			return
		}
	case len(seg) == 2 && seg[0] == "delete-category":
		if r.Method == http.MethodDelete {
			if _, ok := s.requireAuth(w, r); ok {
				s.handleDeleteCategory(w, r, seg[1])
			}
			return
		}
	case len(seg) == 1 && seg[0] == "add-comment":
		if r.Method == http.MethodPost {
			if identity, ok := s.requireAuth(w, r); ok {
				s.handleAddComment(w, r, identity)
			}
			return
		}
	case len(seg) == 2 && seg[0] == "edit-comment":
		if r.Method == http.MethodPut {
			if _, ok := s.requireAuth(w, r); ok {
				s.handleEditComment(w, r, seg[1])
			}
			return
		}
	case len(seg) == 1 && seg[0] == "add-to-wishlist":
		if r.Method == http.MethodPost {
			if identity, ok := s.requireAuth(w, r); ok {
				s.handleAddToWishlist(w, r, identity)
			}
			return
		}
	case len(seg) == 2 && seg[0] == "delete-to-wishlist":
		if r.Method == http.MethodDelete {
			if _, ok := s.requireAuth(w, r); ok {
				s.handleDeleteFromWishlist(w, r, seg[1])
			}
			return
		}

	// Open user upserts (the web client calls these before any token
	// exists, right after its own sign-in flow).
	case len(seg) == 1 && seg[0] == "add-user":
		if r.Method == http.MethodPost {
			s.handleUpsertUser(w, r)
			return
		}
	case len(seg) == 1 && seg[0] == "edit-user":
		if r.Method == http.MethodPut {
			s.handleUpsertUser(w, r)
			return
		}

	// Session boundary.
	case len(seg) == 1 && seg[0] == "jwt":
		if r.Method == http.MethodPost {
			s.handleIssueToken(w, r)
			return
		}
	case len(seg) == 1 && seg[0] == "logout":
		if r.Method == http.MethodPost {
			s.handleLogout(w, r)
			return
		}
	}

	notFound(w)
}

func (s *Server) handleDashboardCount(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.DashboardCounts(r.Context())
	if err != nil {
		s.storeError(w, "dashboard counts", err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// storeError maps a store failure onto the wire contract: bad ids are the
// caller's fault, a missing single document surfaces as 200 with a null
// body, everything else is logged and reported as a generic 500.
func (s *Server) storeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		writeError(w, http.StatusBadRequest, errors.New("invalid id"))
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusOK, nil)
	default:
		s.logger.Error("store operation failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, errInternal)
	}
}

func (s *Server) clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, errors.New("not found"))
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func readJSON(body io.ReadCloser, dest any) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

// readJSONLoose decodes bodies whose shape is client-controlled, keeping
// or ignoring fields beyond the ones dest names instead of rejecting them.
func readJSONLoose(body io.ReadCloser, dest any) error {
	defer body.Close()
	return json.NewDecoder(body).Decode(dest)
}

func parseInt64Default(value string, def int64) int64 {
	if value == "" {
		return def
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	return def
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
