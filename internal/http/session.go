package httpapp

import "net/http"

// handleIssueToken signs the posted identity into a token and delivers
// it as the session cookie. The body is whatever claim set the client
// sends; every field is signed through verbatim. The server keeps
// nothing; the cookie is the whole session.
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := readJSONLoose(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	token, err := s.tokens.Issue(payload)
	if err != nil {
		s.logger.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	http.SetCookie(w, sessionCookie(token, int(s.tokens.TTL().Seconds())))
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleLogout clears the cookie with the same attributes it was set
// with; browsers only drop it on an exact match.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, sessionCookie("", -1))
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// sessionCookie builds the token cookie: script-inaccessible, encrypted
// transport only, and cross-site sendable because client and API are on
// different origins.
func sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     tokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}
