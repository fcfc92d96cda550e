/**
 * @description
 * Command line entry points for the exchange service.
 *
 * Key features:
 * - `serve` runs the HTTP API, the event consumer and the scheduled jobs.
 * - `import-wallets` loads WALLET_ADDRESSES_JSON into Postgres once.
 * - `migrate` applies or inspects the embedded schema.
 *
 * @dependencies
 * - github.com/spf13/cobra: command tree.
 * - github.com/joho/godotenv: .env files during local development.
 */
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tradex/exchange-service/internal/config"
)

var (
	configPath string
	cfg        config.Config
	logger     *slog.Logger
)

func Execute() error {
	root := &cobra.Command{
		Use:           "exchange",
		Short:         "Crypto exchange web service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file for local development.
			if err := godotenv.Load(); err != nil {
				slog.Debug("no .env file found, using environment variables")
			}

			var err error
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("cannot load config: %w", err)
			}

			logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
			slog.SetDefault(logger)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing the .env config file")

	root.AddCommand(serveCmd(), importWalletsCmd(), migrateCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func connectDatabase(ctx context.Context) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("database connection established")
	return pool, nil
}
