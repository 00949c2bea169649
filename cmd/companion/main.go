package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"nexus-companion/internal/config"
	"nexus-companion/internal/constants"
	fxmodules "nexus-companion/internal/fx"
	"nexus-companion/internal/lcu"
	"nexus-companion/internal/server"
	"nexus-companion/internal/service"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runCompanion),
	).Run()
}

func runCompanion(
	lc fx.Lifecycle,
	srv *server.Server,
	authSvc *service.AuthService,
	watcher *lcu.Watcher,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%s", cfg.ListenPort),
		Handler: srv.Router(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := authSvc.Restore(ctx); err != nil {
				logger.Warn().Err(err).Msg("failed to restore persisted session")
			}

			watcher.Start()

			go func() {
				logger.Info().Str("addr", httpSrv.Addr).Msg("companion listening")
				if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			watcher.Stop()

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database")
			}

			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("stopped gracefully")
			return nil
		},
	})
}
