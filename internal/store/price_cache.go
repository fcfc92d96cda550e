package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tradex/exchange-service/internal/domain"
)

// PriceCache stores the latest market ticker snapshot as one JSON value.
type PriceCache struct {
	client KeyValue
	key    string
}

func NewPriceCache(client KeyValue, prefix string) *PriceCache {
	return &PriceCache{client: client, key: normalizePrefix(prefix) + ":market:tickers"}
}

// Get returns the cached tickers. ok is false when nothing is cached.
func (c *PriceCache) Get(ctx context.Context) (tickers []domain.MarketTicker, ok bool, err error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read price cache: %w", err)
	}
	if err := json.Unmarshal(raw, &tickers); err != nil {
		return nil, false, fmt.Errorf("decode price cache: %w", err)
	}
	return tickers, true, nil
}

// Put replaces the cached snapshot for ttl.
func (c *PriceCache) Put(ctx context.Context, tickers []domain.MarketTicker, ttl time.Duration) error {
	payload, err := json.Marshal(tickers)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("write price cache: %w", err)
	}
	return nil
}
