package api

import (
	"net/http"

	"github.com/tradex/exchange-service/internal/auth"
)

func (h *Handler) handleGetOnboarding(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	state, err := h.onboarding.Get(r.Context(), principal.UserID)
	if err != nil {
		h.logger.Error("onboarding lookup failed", "user_id", principal.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load onboarding state")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) handleCompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	state, err := h.onboarding.MarkCompleted(r.Context(), principal.UserID)
	if err != nil {
		h.logger.Error("onboarding update failed", "user_id", principal.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not update onboarding state")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) handleResetOnboarding(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	if err := h.onboarding.Reset(r.Context(), principal.UserID); err != nil {
		h.logger.Error("onboarding reset failed", "user_id", principal.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not reset onboarding state")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
