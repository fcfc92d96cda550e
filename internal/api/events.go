package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tradex/exchange-service/internal/domain"
	"github.com/tradex/exchange-service/internal/events"
)

// handleDispatchEvent decodes the event in the body and runs its
// notification actions inline. Action failures are reported, not raised.
func (h *Handler) handleDispatchEvent(w http.ResponseWriter, r *http.Request) {
	kind := domain.EventKind(chi.URLParam(r, "kind"))
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := events.Decode(kind, body)
	if err != nil {
		if errors.Is(err, events.ErrUnknownKind) {
			h.logger.Info("ignoring event of unknown kind", "kind", kind)
			writeJSON(w, http.StatusAccepted, events.Report{Kind: kind})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report := h.dispatcher.Dispatch(r.Context(), event)
	writeJSON(w, http.StatusOK, report)
}
