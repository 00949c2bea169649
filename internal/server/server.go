// Package server exposes the companion's local REST surface. The desktop
// shell talks only to these routes; everything outbound goes through the
// gateway client.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"nexus-companion/internal/lcu"
	"nexus-companion/internal/metrics"
	"nexus-companion/internal/middleware"
	"nexus-companion/internal/service"
	"nexus-companion/internal/session"
)

type Server struct {
	sessionStore *session.Store
	authSvc      *service.AuthService
	matchSvc     *service.MatchService
	highlightSvc *service.HighlightService
	analysisSvc  *service.AnalysisService
	lcuWatcher   *lcu.Watcher
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

func New(
	sessionStore *session.Store,
	authSvc *service.AuthService,
	matchSvc *service.MatchService,
	highlightSvc *service.HighlightService,
	analysisSvc *service.AnalysisService,
	lcuWatcher *lcu.Watcher,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Server {
	return &Server{
		sessionStore: sessionStore,
		authSvc:      authSvc,
		matchSvc:     matchSvc,
		highlightSvc: highlightSvc,
		analysisSvc:  analysisSvc,
		lcuWatcher:   lcuWatcher,
		metrics:      m,
		logger:       logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(s.logger))
	r.Use(middleware.Metrics(s.metrics))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	r.Use(c.Handler)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/local", func(r chi.Router) {
		r.Get("/session", s.handleSession)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", s.handleCurrentUser)
			r.Put("/", s.handleUpdateProfile)
			r.Delete("/", s.handleDeleteAccount)
			r.Get("/settings", s.handleGetSettings)
			r.Put("/settings", s.handleUpdateSettings)
		})

		r.Route("/riot", func(r chi.Router) {
			r.Post("/link", s.handleLinkRiot)
			r.Delete("/link", s.handleUnlinkRiot)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/summoner/{gameName}/{tagLine}", s.handleMatchHistory)
			r.Get("/summoner/{gameName}/{tagLine}/kill-participation", s.handleKillParticipation)
			r.Get("/{matchID}/detail", s.handleMatchDetail)
		})

		r.Route("/highlights", func(r chi.Router) {
			r.Get("/{id}", s.handleHighlight)
			r.Post("/{id}/view", s.handleHighlightView)
			r.Delete("/{id}", s.handleDeleteHighlight)
			r.Get("/match/{matchID}", s.handleMatchHighlights)
			r.Post("/match/{matchID}/auto-generate", s.handleAutoGenerate)
			r.Get("/player/{puuid}", s.handlePlayerHighlights)
		})

		r.Route("/analyses", func(r chi.Router) {
			r.Get("/match/{matchID}", s.handleMatchAnalysis)
			r.Post("/match/{matchID}", s.handleRequestAnalysis)
		})

		r.Get("/lcu/status", s.handleLCUStatus)
	})

	return r
}
