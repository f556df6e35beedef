package auth

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"labinventory/infrastructure/cache"
	sessioncookie "labinventory/infrastructure/session"
	"labinventory/infrastructure/sqlite"
	"labinventory/models"
)

// RequireSession loads the login session from the cookie and rejects the
// request when it is missing or expired. The session lands on the request
// context for handlers downstream.
func RequireSession(db *sqlite.DB, sessionCache *cache.UserSessionCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessioncookie.CookieName)
			if err != nil || cookie.Value == "" {
				writeJSONError(w, http.StatusUnauthorized, "login required")
				return
			}

			session, ok := resolveSession(r, db, sessionCache, cookie.Value)
			if !ok {
				http.SetCookie(w, sessioncookie.SessionCookie("", -1))
				writeJSONError(w, http.StatusUnauthorized, "session expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContextWithSession(r.Context(), session)))
		})
	}
}

func resolveSession(r *http.Request, db *sqlite.DB, sessionCache *cache.UserSessionCache, token string) (models.Session, bool) {
	// The cache serves only live sessions and evicts stale entries itself,
	// so a miss of either kind falls through to the database.
	if cached, found := sessionCache.FindSessionBySessionToken(token); found {
		return cached, true
	}

	session, err := LoadSessionByToken(r.Context(), db, token)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("load session from db failed", slog.Any("err", err))
		}
		return models.Session{}, false
	}
	sessionCache.AddSession(session)
	return session, true
}
