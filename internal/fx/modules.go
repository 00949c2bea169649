package fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"nexus-companion/internal/config"
	"nexus-companion/internal/database"
	"nexus-companion/internal/gateway"
	"nexus-companion/internal/lcu"
	"nexus-companion/internal/logger"
	"nexus-companion/internal/metrics"
	"nexus-companion/internal/repository"
	"nexus-companion/internal/server"
	"nexus-companion/internal/service"
	"nexus-companion/internal/session"
)

func ProvideSessionStore(repo *repository.SessionRepository, log zerolog.Logger) *session.Store {
	return session.NewStore(repo, log)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	config.Module,
	metrics.Module,
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewSessionRepository),
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewProfileRepository),
	// session + gateway
	fx.Provide(ProvideSessionStore),
	fx.Provide(gateway.NewClient),
	// lcu
	fx.Provide(lcu.NewWatcher),
	// svc
	fx.Provide(service.NewAuthService),
	fx.Provide(service.NewMatchService),
	fx.Provide(service.NewHighlightService),
	fx.Provide(service.NewAnalysisService),
	// server
	fx.Provide(server.New),
)
