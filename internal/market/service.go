/**
 * @description
 * Market price view-model. Prices for every active deposit gateway with a
 * CoinGecko id are fetched, reshaped into tickers and cached in Redis. A cron
 * job keeps the cache warm; readers fall back to a live refresh on a miss.
 */
package market

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/tradex/exchange-service/internal/domain"
	"github.com/tradex/exchange-service/internal/metrics"
	"github.com/tradex/exchange-service/pkg/coingeckoclient"
)

const (
	DirectionUp   = "up"
	DirectionDown = "down"
	DirectionFlat = "flat"
)

type WalletSource interface {
	ListWalletAddresses(ctx context.Context, activeOnly bool) ([]domain.WalletAddress, error)
}

type PriceSource interface {
	SimplePrice(ctx context.Context, ids []string) (map[string]coingeckoclient.Price, error)
}

type Cache interface {
	Get(ctx context.Context) ([]domain.MarketTicker, bool, error)
	Put(ctx context.Context, tickers []domain.MarketTicker, ttl time.Duration) error
}

// Service builds and caches market tickers.
type Service struct {
	wallets WalletSource
	prices  PriceSource
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(wallets WalletSource, prices PriceSource, cache Cache, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		wallets: wallets,
		prices:  prices,
		cache:   cache,
		ttl:     ttl,
		logger:  logger.With("component", "market"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Tickers returns cached tickers, refreshing on a miss.
func (s *Service) Tickers(ctx context.Context) ([]domain.MarketTicker, error) {
	tickers, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn("price cache read failed; refreshing", "error", err)
	}
	if ok {
		return tickers, nil
	}
	return s.Refresh(ctx)
}

// Refresh fetches fresh prices and replaces the cached snapshot.
func (s *Service) Refresh(ctx context.Context) ([]domain.MarketTicker, error) {
	wallets, err := s.wallets.ListWalletAddresses(ctx, true)
	if err != nil {
		metrics.PriceRefreshTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("list wallet addresses: %w", err)
	}

	ids := make([]string, 0, len(wallets))
	for _, w := range wallets {
		if id := strings.TrimSpace(w.CoingeckoID); id != "" {
			ids = append(ids, id)
		}
	}

	prices, err := s.prices.SimplePrice(ctx, ids)
	if err != nil {
		metrics.PriceRefreshTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("fetch prices: %w", err)
	}

	tickers := BuildTickers(wallets, prices, s.now())
	if err := s.cache.Put(ctx, tickers, s.ttl); err != nil {
		s.logger.Warn("price cache write failed", "error", err)
	}
	metrics.PriceRefreshTotal.WithLabelValues("ok").Inc()
	s.logger.Debug("market prices refreshed", "tickers", len(tickers))
	return tickers, nil
}

// BuildTickers joins wallets with their prices. Wallets without a quote are
// left out; the result is sorted by symbol.
func BuildTickers(wallets []domain.WalletAddress, prices map[string]coingeckoclient.Price, now time.Time) []domain.MarketTicker {
	seen := make(map[string]bool, len(wallets))
	tickers := make([]domain.MarketTicker, 0, len(wallets))
	for _, w := range wallets {
		id := strings.TrimSpace(w.CoingeckoID)
		price, ok := prices[id]
		if id == "" || !ok {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(w.Abbreviation))
		if symbol == "" {
			symbol = strings.ToUpper(id)
		}
		if seen[symbol] {
			continue
		}
		seen[symbol] = true

		updated := price.UpdatedAt()
		if updated.IsZero() {
			updated = now
		}
		tickers = append(tickers, domain.MarketTicker{
			Symbol:    symbol,
			Name:      w.Name,
			PriceUSD:  price.USD,
			Change24h: price.USD24hChange,
			Direction: direction(price.USD24hChange),
			UpdatedAt: updated,
		})
	}
	sort.Slice(tickers, func(i, j int) bool { return tickers[i].Symbol < tickers[j].Symbol })
	return tickers
}

func direction(change float64) string {
	switch {
	case change > 0:
		return DirectionUp
	case change < 0:
		return DirectionDown
	default:
		return DirectionFlat
	}
}
