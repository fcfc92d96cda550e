/**
 * @description
 * Client for the CoinGecko public price API. Only the simple price endpoint
 * is used: spot USD price and 24h change for a set of coin ids.
 */
package coingeckoclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Price is the quote for one coin id.
type Price struct {
	USD           float64 `json:"usd"`
	USD24hChange  float64 `json:"usd_24h_change"`
	LastUpdatedAt int64   `json:"last_updated_at"`
}

// UpdatedAt converts LastUpdatedAt to a time, or zero when absent.
func (p Price) UpdatedAt() time.Time {
	if p.LastUpdatedAt <= 0 {
		return time.Time{}
	}
	return time.Unix(p.LastUpdatedAt, 0).UTC()
}

// Client provides methods to interact with CoinGecko.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a CoinGecko client. An empty baseURL selects the public API.
func NewClient(baseURL, apiKey string) *Client {
	normalizedURL := strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if normalizedURL == "" {
		normalizedURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    normalizedURL,
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SimplePrice fetches USD prices for ids. Ids CoinGecko does not know are
// absent from the result.
func (c *Client) SimplePrice(ctx context.Context, ids []string) (map[string]Price, error) {
	unique := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			unique[id] = struct{}{}
		}
	}
	if len(unique) == 0 {
		return map[string]Price{}, nil
	}
	sorted := make([]string, 0, len(unique))
	for id := range unique {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	query := url.Values{}
	query.Set("ids", strings.Join(sorted, ","))
	query.Set("vs_currencies", "usd")
	query.Set("include_24hr_change", "true")
	query.Set("include_last_updated_at", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		if strings.Contains(c.baseURL, "pro-api.") {
			req.Header.Set("x-cg-pro-api-key", c.apiKey)
		} else {
			req.Header.Set("x-cg-demo-api-key", c.apiKey)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("coingecko returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var prices map[string]Price
	if err := json.NewDecoder(resp.Body).Decode(&prices); err != nil {
		return nil, fmt.Errorf("failed to decode price response: %w", err)
	}
	return prices, nil
}
