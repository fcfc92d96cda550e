package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/tradex/exchange-service/internal/flash"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
)

type pushFlashRequest struct {
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	Title       string `json:"title,omitempty"`
	Duration    *int64 `json:"duration,omitempty"`
	Dismissible *bool  `json:"dismissible,omitempty"`
}

type flashListResponse struct {
	Notifications []flash.Notification `json:"notifications"`
}

func (h *Handler) sessionStore(r *http.Request) *flash.Store {
	return h.flash.Get(sessionFromContext(r.Context()))
}

func (h *Handler) handleListFlash(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, flashListResponse{Notifications: h.sessionStore(r).Notifications()})
}

func (h *Handler) handlePushFlash(w http.ResponseWriter, r *http.Request) {
	var req pushFlashRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	kind, err := flash.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	var opts []flash.Option
	if title := strings.TrimSpace(req.Title); title != "" {
		opts = append(opts, flash.WithTitle(title))
	}
	if req.Duration != nil {
		ms := *req.Duration
		if ms < 0 || ms > flash.MaxDuration.Milliseconds() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("duration must be between 0 and %d milliseconds", flash.MaxDuration.Milliseconds()))
			return
		}
		opts = append(opts, flash.WithDuration(time.Duration(ms)*time.Millisecond))
	}
	if req.Dismissible != nil {
		opts = append(opts, flash.WithDismissible(*req.Dismissible))
	}

	store := h.sessionStore(r)
	id := store.Push(kind, message, opts...)
	if id == 0 {
		h.logger.Warn("flash push rejected by closed store")
		writeError(w, http.StatusServiceUnavailable, "flash session is closing, retry")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":            id,
		"notifications": store.Notifications(),
	})
}

func (h *Handler) handleRemoveFlash(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	h.sessionStore(r).Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClearFlash(w http.ResponseWriter, r *http.Request) {
	h.sessionStore(r).Clear()
	w.WriteHeader(http.StatusNoContent)
}

// handleFlashStream upgrades to a websocket and pushes the session's
// notification list after every change.
func (h *Handler) handleFlashStream(upgrader *websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Debug("flash stream upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		snapshots, cancel := h.sessionStore(r).Subscribe()
		defer cancel()

		// The reader only services control frames and notices the client leaving.
		closed := make(chan struct{})
		_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(streamPingPeriod)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-closed:
				return
			case items, ok := <-snapshots:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "session ended"),
						time.Now().Add(streamWriteWait))
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				if err := conn.WriteJSON(flashListResponse{Notifications: items}); err != nil {
					return
				}
			case <-ping.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
					return
				}
			}
		}
	}
}

func newUpgrader(allowedOrigins []string) *websocket.Upgrader {
	allowAll := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(origin, "/")] = true
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return allowAll || origin == "" || allowed[strings.TrimRight(origin, "/")]
		},
	}
}
