package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"labinventory/infrastructure/cache"
	sessioncookie "labinventory/infrastructure/session"
	"labinventory/infrastructure/sqlite"
	"labinventory/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// LoginHandler authenticates the user and issues a session cookie.
func LoginHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		req.Password = strings.TrimSpace(req.Password)
		if req.Username == "" || req.Password == "" {
			writeJSONError(w, http.StatusBadRequest, "username and password are required")
			return
		}

		user, err := authenticateUser(r.Context(), db, req.Username, req.Password)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeJSONError(w, http.StatusUnauthorized, "invalid username or password")
				return
			}
			writeJSONError(w, http.StatusInternalServerError, "authentication failed")
			return
		}

		session := models.Session{
			ID:        newSessionToken(),
			UserID:    user.ID,
			User:      user,
			ExpiresAt: sessioncookie.DefaultExpiry(),
		}
		if err := persistSession(r.Context(), db, session); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to create session")
			return
		}

		sessionCache.AddSession(session)

		http.SetCookie(w, sessioncookie.SessionCookie(session.ID, int(sessioncookie.Lifetime.Seconds())))
		writeJSON(w, http.StatusOK, loginResponse{Name: user.Name, Role: user.Role})
	}
}

// LogoutHandler removes session state and clears the cookie.
func LogoutHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessioncookie.CookieName)
		if err == nil && cookie.Value != "" {
			sessionCache.DeleteSessionBySessionToken(cookie.Value)
			_ = DeleteSessionByToken(r.Context(), db, cookie.Value)
		}
		http.SetCookie(w, sessioncookie.SessionCookie("", -1))
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
