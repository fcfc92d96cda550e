package domain

import "time"

// WalletAddress is a deposit gateway definition keyed by MethodCode.
type WalletAddress struct {
	MethodCode       string    `json:"method_code"`
	Name             string    `json:"name"`
	Abbreviation     string    `json:"abbreviation"`
	GatewayParameter string    `json:"gateway_parameter"`
	Status           int       `json:"status"`
	CoingeckoID      string    `json:"coingecko_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Active reports whether the gateway is enabled for deposits.
func (w WalletAddress) Active() bool {
	return w.Status == 1
}
