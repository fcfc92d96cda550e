package domain

import "time"

// MarketTicker is the view-model rendered on the markets page.
type MarketTicker struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	PriceUSD  float64   `json:"price_usd"`
	Change24h float64   `json:"change_24h"`
	Direction string    `json:"direction"`
	UpdatedAt time.Time `json:"updated_at"`
}
