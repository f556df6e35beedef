package imports

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"labinventory/auth"
)

// Workbooks beyond this size are rejected by the read loop.
const maxUploadBytes = 50 << 20

// Handler exposes the capability-token endpoint and the streaming import
// endpoint. One websocket connection is one import session.
type Handler struct {
	Tokens *TokenManager
	Store  ImportStore
	Files  *FileStore

	upgrader websocket.Upgrader
}

func NewHandler(tokens *TokenManager, store ImportStore, files *FileStore) *Handler {
	return &Handler{
		Tokens: tokens,
		Store:  store,
		Files:  files,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// TokenHandler hands the logged-in user a short-lived import token. Repeat
// calls return the same token until it expires or is consumed.
func (h *Handler) TokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.SessionFromContext(r.Context())
		if !ok {
			http.Error(w, "login required", http.StatusUnauthorized)
			return
		}
		grant := h.Tokens.Issue(session.UserID)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": grant.Token})
	}
}

// StreamHandler upgrades the connection and drives one import session. The
// token is consumed before the upgrade, so a second attempt with the same
// token is rejected. Messages are read and handled one at a time; any
// transport error tears the session down, temp file included.
func (h *Handler) StreamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("access_token")
		if token == "" {
			http.Error(w, "missing access token", http.StatusUnauthorized)
			return
		}
		grant, err := h.Tokens.Consume(token)
		if err != nil {
			http.Error(w, "invalid access token", http.StatusForbidden)
			return
		}

		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("import stream upgrade failed", slog.Any("err", err))
			return
		}
		defer conn.Close()
		conn.SetReadLimit(maxUploadBytes)

		sess := NewSession(grant.Token, grant.UserID, h.Store, h.Files, slog.Default())
		defer sess.Teardown()

		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var msgs []ServerMessage
			var handleErr error
			switch msgType {
			case websocket.BinaryMessage:
				msgs, handleErr = sess.HandleBinary(r.Context(), data)
			case websocket.TextMessage:
				msgs, handleErr = sess.HandleText(r.Context(), data)
			default:
				continue
			}

			for _, m := range msgs {
				if err := conn.WriteJSON(m); err != nil {
					return
				}
			}
			if handleErr != nil && !errors.Is(handleErr, ErrNoValidSheets) {
				return
			}
			if sess.Stage() == StageDone {
				return
			}
		}
	}
}
