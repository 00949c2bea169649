package service

import (
	"context"

	"github.com/rs/zerolog"

	"nexus-companion/internal/constants"
	"nexus-companion/internal/domain"
	"nexus-companion/internal/gateway"
)

type HighlightService struct {
	gw     *gateway.Client
	logger zerolog.Logger
}

func NewHighlightService(gw *gateway.Client, logger zerolog.Logger) *HighlightService {
	return &HighlightService{gw: gw, logger: logger}
}

func (s *HighlightService) Get(ctx context.Context, id int64) (*domain.Highlight, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()
	return s.gw.Highlight(ctx, id)
}

func (s *HighlightService) ForMatch(ctx context.Context, matchID string, page, size int) (*gateway.HighlightPage, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()
	return s.gw.MatchHighlights(ctx, matchID, page, size)
}

func (s *HighlightService) ForPlayer(ctx context.Context, puuid string, page, size int, highlightType domain.HighlightType) (*gateway.HighlightPage, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()
	return s.gw.PlayerHighlights(ctx, puuid, page, size, highlightType)
}

// View bumps the clip's view counter and returns the updated clip.
func (s *HighlightService) View(ctx context.Context, id int64) (*domain.Highlight, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()
	return s.gw.IncrementHighlightView(ctx, id)
}

// AutoGenerate kicks off server-side highlight detection for a match.
func (s *HighlightService) AutoGenerate(ctx context.Context, matchID string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.logger.Info().Str("match_id", matchID).Msg("requesting highlight auto-generation")
	return s.gw.AutoGenerateHighlights(ctx, matchID)
}

func (s *HighlightService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()
	return s.gw.DeleteHighlight(ctx, id)
}
