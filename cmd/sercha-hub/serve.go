package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpserver "github.com/custodia-labs/sercha-hub/internal/adapters/driving/http"
)

const sessionPurgeInterval = 15 * time.Minute

func secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func serveCmd(cfgPath *string) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the search HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := loadApp(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if migrate {
				if err := a.db.InitSchema(ctx); err != nil {
					return err
				}
				a.logger.Info("schema initialized")
			}

			if a.pgSessions != nil {
				go purgeSessions(ctx, a)
			}

			checks := map[string]httpserver.Pinger{"postgres": a.db}
			if a.redis != nil {
				checks["redis"] = httpserver.PingFunc(func(ctx context.Context) error {
					return a.redis.Ping(ctx).Err()
				})
			}

			srv := httpserver.NewServer(httpserver.Config{
				Host:            "0.0.0.0",
				Port:            a.cfg.HTTP.Port,
				Version:         version,
				ReadTimeout:     secs(a.cfg.HTTP.ReadTimeoutSec),
				WriteTimeout:    secs(a.cfg.HTTP.WriteTimeoutSec),
				ShutdownTimeout: secs(a.cfg.HTTP.ShutdownSec),
			}, a.authService, a.searchService, checks, a.logger)

			return srv.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&migrate, "init-schema", false, "apply the schema before serving")
	return cmd
}

// purgeSessions reclaims expired PostgreSQL session rows until ctx is done
func purgeSessions(ctx context.Context, a *app) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.pgSessions.PurgeExpired(ctx)
			if err != nil {
				a.logger.Warn("purge expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				a.logger.Debug("purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}

func initSchemaCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init-schema",
		Short: "Create tables and indexes (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.db.InitSchema(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("schema initialized")
			return nil
		},
	}
}
