package commands

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/tradex/exchange-service/migrations"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect the database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := connectDatabase(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			db := stdlib.OpenDBFromPool(pool)
			defer db.Close()

			var run func(context.Context, *sql.DB) error
			switch args[0] {
			case "up":
				run = migrations.Up
			case "down":
				run = migrations.Down
			case "status":
				run = migrations.Status
			default:
				return fmt.Errorf("unknown migrate command %q", args[0])
			}
			if err := run(ctx, db); err != nil {
				return err
			}
			logger.Info("migrate finished", "command", args[0])
			return nil
		},
	}
}
