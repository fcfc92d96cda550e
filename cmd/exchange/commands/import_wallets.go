package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradex/exchange-service/internal/store"
	"github.com/tradex/exchange-service/internal/wallet"
)

func importWalletsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-wallets",
		Short: "Upsert the wallet addresses from WALLET_ADDRESSES_JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			pool, err := connectDatabase(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			importer := wallet.NewImporter(store.NewRepository(pool), logger)
			result, err := importer.Import(ctx, cfg.WalletAddressesJSON)
			if err != nil {
				logger.Error("wallet address import failed", "total", result.Total, "processed", result.Processed, "error", err)
				return err
			}
			cmd.Printf("Imported %d of %d wallet addresses\n", result.Processed, result.Total)
			return nil
		},
	}
}
