package httpapp

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kothahq/kotha-server/internal/auth"
)

// tokenCookie is the cookie carrying the signed identity token.
const tokenCookie = "token"

// requireAuth is the access guard. A missing or unverifiable cookie ends
// the request with a bare-text 401; on success the verified identity is
// handed to the route's handler.
func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	cookie, err := r.Cookie(tokenCookie)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return auth.Identity{}, false
	}
	identity, err := s.tokens.Verify(cookie.Value)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return auth.Identity{}, false
	}
	return identity, true
}

// authorizeOwner is the single ownership predicate: the owner an
// operation declares (path segment, query param or body field) must equal
// the verified caller email, byte for byte. On mismatch the request ends
// with a bare-text 403 before any store operation runs.
func (s *Server) authorizeOwner(w http.ResponseWriter, identity auth.Identity, declaredOwner string) bool {
	if declaredOwner != identity.Email {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}

// allowRateLimit applies the fixed-window limit per client IP and, when
// known, per caller email.
func (s *Server) allowRateLimit(w http.ResponseWriter, r *http.Request, action string, limit int, email string) bool {
	if limit <= 0 {
		return true
	}
	ipKey := fmt.Sprintf("%s:ip:%s", action, s.clientIP(r))
	if ok, retry := s.limiter.Allow(ipKey, limit, time.Minute); !ok {
		writeRateLimit(w, retry)
		return false
	}
	if email != "" {
		emailKey := fmt.Sprintf("%s:email:%s", action, email)
		if ok, retry := s.limiter.Allow(emailKey, limit, time.Minute); !ok {
			writeRateLimit(w, retry)
			return false
		}
	}
	return true
}

func writeRateLimit(w http.ResponseWriter, retry time.Duration) {
	w.Header().Set("Retry-After", fmt.Sprintf("%d", int(retry.Seconds())))
	writeJSON(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate limit exceeded",
		"retry_after": int(retry.Seconds()),
	})
}
