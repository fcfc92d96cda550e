package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tradex/exchange-service/internal/domain"
	"github.com/tradex/exchange-service/internal/wallet"
)

// walletAddressResource is the admin-facing shape of a wallet address record.
type walletAddressResource struct {
	MethodCode       string      `json:"method_code"`
	Name             string      `json:"name"`
	Abbreviation     string      `json:"abbreviation"`
	GatewayParameter interface{} `json:"gateway_parameter"`
	Status           string      `json:"status"`
	CoingeckoID      string      `json:"coingecko_id,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// toWalletAddressResource decodes JSON gateway parameters so clients get
// structured values; plain strings pass through.
func toWalletAddressResource(addr domain.WalletAddress) walletAddressResource {
	var param interface{} = addr.GatewayParameter
	trimmed := strings.TrimSpace(addr.GatewayParameter)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var decoded interface{}
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			param = decoded
		}
	}
	status := "disabled"
	if addr.Active() {
		status = "active"
	}
	return walletAddressResource{
		MethodCode:       addr.MethodCode,
		Name:             addr.Name,
		Abbreviation:     addr.Abbreviation,
		GatewayParameter: param,
		Status:           status,
		CoingeckoID:      addr.CoingeckoID,
		CreatedAt:        addr.CreatedAt,
		UpdatedAt:        addr.UpdatedAt,
	}
}

func (h *Handler) handleListWalletAddresses(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	addresses, err := h.wallets.ListWalletAddresses(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("wallet address listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list wallet addresses")
		return
	}
	out := make([]walletAddressResource, 0, len(addresses))
	for _, addr := range addresses {
		out = append(out, toWalletAddressResource(addr))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": out})
}

// handleImportWalletAddresses imports the JSON array in the request body, or
// the configured source when the body is empty.
func (h *Handler) handleImportWalletAddresses(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	raw := string(body)
	if strings.TrimSpace(raw) == "" {
		raw = h.walletSource
	}

	result, err := h.importer.Import(r.Context(), raw)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, wallet.ErrParse):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":     err.Error(),
			"total":     result.Total,
			"processed": result.Processed,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":     "import stopped before completion",
			"total":     result.Total,
			"processed": result.Processed,
		})
	}
}

func (h *Handler) handleListEventBindings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"bindings": h.dispatcher.Bindings()})
}
