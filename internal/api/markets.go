package api

import (
	"net/http"

	"github.com/tradex/exchange-service/internal/domain"
)

func (h *Handler) handleListMarkets(w http.ResponseWriter, r *http.Request) {
	tickers, err := h.markets.Tickers(r.Context())
	if err != nil {
		h.logger.Error("market tickers unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "market data unavailable")
		return
	}
	if tickers == nil {
		tickers = []domain.MarketTicker{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"markets": tickers})
}
