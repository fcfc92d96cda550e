/**
 * @description
 * One-shot import of deposit gateway wallet addresses. The source is a JSON
 * array (usually the WALLET_ADDRESSES_JSON environment variable); each element
 * is upserted by method_code.
 *
 * @notes
 * - Parsing is all-or-nothing: a malformed source performs zero writes.
 * - Writes are sequential and not wrapped in a transaction. If a write fails
 *   the import stops and earlier rows stay written. Re-running the import is
 *   safe because every write is an upsert.
 */
package wallet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tradex/exchange-service/internal/domain"
	"github.com/tradex/exchange-service/internal/metrics"
)

// Repository persists wallet address records.
type Repository interface {
	UpsertWalletAddress(ctx context.Context, addr domain.WalletAddress) error
}

// Result reports how far an import got.
type Result struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
}

// Importer upserts parsed wallet addresses.
type Importer struct {
	repo   Repository
	logger *slog.Logger
}

func NewImporter(repo Repository, logger *slog.Logger) *Importer {
	return &Importer{repo: repo, logger: logger.With("component", "wallet_importer")}
}

// Import parses raw and upserts every element in order.
func (i *Importer) Import(ctx context.Context, raw string) (Result, error) {
	addresses, err := Parse(raw)
	if err != nil {
		i.logger.Error("wallet address source rejected", "error", err)
		return Result{}, err
	}

	result := Result{Total: len(addresses)}
	for _, addr := range addresses {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("import interrupted after %d of %d: %w", result.Processed, result.Total, err)
		}
		if err := i.repo.UpsertWalletAddress(ctx, addr); err != nil {
			metrics.WalletUpsertsTotal.WithLabelValues("failed").Inc()
			i.logger.Error("wallet address upsert failed",
				"method_code", addr.MethodCode,
				"processed", result.Processed,
				"total", result.Total,
				"error", err,
			)
			return result, fmt.Errorf("upsert wallet address %s: %w", addr.MethodCode, err)
		}
		metrics.WalletUpsertsTotal.WithLabelValues("ok").Inc()
		result.Processed++
	}

	i.logger.Info("wallet addresses imported", "processed", result.Processed)
	return result, nil
}
