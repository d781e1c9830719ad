package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/harentsoaR/dentaclinic-api/internal/app"
	"github.com/harentsoaR/dentaclinic-api/internal/config"
	"github.com/harentsoaR/dentaclinic-api/internal/logging"
	"github.com/harentsoaR/dentaclinic-api/internal/server"
)

func newServeCommand() *cobra.Command {
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// Set up the logger before fx starts so all logs use it.
			log := logging.New(cfg)
			slog.SetDefault(log)

			fxApp := fx.New(
				fx.Supply(cfg, log),
				app.InfraModule,
				app.ServiceModule,
				server.Module,
				fx.Invoke(func(*http.Server) {}),
				fx.StopTimeout(shutdownTimeout),
				fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
			)
			if err := fxApp.Err(); err != nil {
				return err
			}

			fxApp.Run()
			return nil
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Maximum time to wait for graceful shutdown")
	return cmd
}
