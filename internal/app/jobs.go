/**
 * @description
 * Scheduled housekeeping: market price refresh and cleanup of idle flash
 * sessions and their push rate limiters.
 */
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/tradex/exchange-service/internal/domain"
)

type PriceRefresher interface {
	Refresh(ctx context.Context) ([]domain.MarketTicker, error)
}

type SessionSweeper interface {
	Sweep(maxIdle time.Duration) int
}

type LimiterPruner interface {
	Prune(maxIdle time.Duration) int
}

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	prices      PriceRefresher
	sessions    SessionSweeper
	limiters    LimiterPruner
	sessionIdle time.Duration
	logger      *slog.Logger
}

func NewJobs(prices PriceRefresher, sessions SessionSweeper, limiters LimiterPruner, logger *slog.Logger) *Jobs {
	return &Jobs{
		prices:      prices,
		sessions:    sessions,
		limiters:    limiters,
		sessionIdle: 30 * time.Minute,
		logger:      logger.With("component", "jobs"),
	}
}

// RefreshMarketPrices warms the market ticker cache.
func (j *Jobs) RefreshMarketPrices() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tickers, err := j.prices.Refresh(ctx)
	if err != nil {
		j.logger.Error("market price refresh failed", "error", err)
		return
	}
	j.logger.Debug("market price refresh finished", "tickers", len(tickers))
}

// SweepIdleSessions drops flash stores and limiters nobody has used lately.
func (j *Jobs) SweepIdleSessions() {
	dropped := j.sessions.Sweep(j.sessionIdle)
	pruned := 0
	if j.limiters != nil {
		pruned = j.limiters.Prune(j.sessionIdle)
	}
	if dropped > 0 || pruned > 0 {
		j.logger.Info("idle sessions swept", "flash_stores", dropped, "limiters", pruned)
	}
}
