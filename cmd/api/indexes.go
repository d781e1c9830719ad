package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/harentsoaR/dentaclinic-api/internal/config"
	"github.com/harentsoaR/dentaclinic-api/internal/database"
	"github.com/harentsoaR/dentaclinic-api/internal/logging"
)

// newIndexesCommand runs the startup database maintenance on its own:
// indexes, sequence counters and the SuperAdmin flag.
func newIndexesCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "indexes",
		Short: "Create indexes and seed counters, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logging.New(cfg)
			slog.SetDefault(log)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			conn := database.NewConnector(database.OptionsFromConfig(cfg), log,
				database.EnsureIndexes,
				database.SeedCounters,
				database.CheckSuperAdmin(log),
			)
			if _, err := conn.Connect(ctx); err != nil {
				return err
			}
			defer conn.Disconnect(context.Background())

			log.Info("database maintenance complete", "database", cfg.MongoDatabase)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Maximum time for the whole run")
	return cmd
}
