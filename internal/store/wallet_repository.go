package store

import (
	"context"
	"fmt"

	"github.com/tradex/exchange-service/internal/domain"
)

// UpsertWalletAddress inserts or replaces the record keyed by method_code.
func (r *Repository) UpsertWalletAddress(ctx context.Context, addr domain.WalletAddress) error {
	query := `
        INSERT INTO wallet_addresses (method_code, name, abbreviation, gateway_parameter, status, coingecko_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (method_code) DO UPDATE SET
            name = EXCLUDED.name,
            abbreviation = EXCLUDED.abbreviation,
            gateway_parameter = EXCLUDED.gateway_parameter,
            status = EXCLUDED.status,
            coingecko_id = EXCLUDED.coingecko_id,
            updated_at = NOW()
    `
	_, err := r.db.Exec(ctx, query,
		addr.MethodCode,
		addr.Name,
		addr.Abbreviation,
		addr.GatewayParameter,
		addr.Status,
		addr.CoingeckoID,
	)
	return err
}

// ListWalletAddresses returns wallet address records ordered by method_code.
// When activeOnly is set, disabled gateways are skipped.
func (r *Repository) ListWalletAddresses(ctx context.Context, activeOnly bool) ([]domain.WalletAddress, error) {
	query := `
        SELECT method_code, name, abbreviation, gateway_parameter, status, coingecko_id, created_at, updated_at
        FROM wallet_addresses
        WHERE ($1 = FALSE OR status = 1)
        ORDER BY method_code
    `
	rows, err := r.db.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("query wallet addresses: %w", err)
	}
	defer rows.Close()

	var out []domain.WalletAddress
	for rows.Next() {
		var addr domain.WalletAddress
		if err := rows.Scan(
			&addr.MethodCode,
			&addr.Name,
			&addr.Abbreviation,
			&addr.GatewayParameter,
			&addr.Status,
			&addr.CoingeckoID,
			&addr.CreatedAt,
			&addr.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan wallet address: %w", err)
		}
		out = append(out, addr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
