package service

import (
	"context"

	"github.com/rs/zerolog"

	"nexus-companion/internal/constants"
	"nexus-companion/internal/domain"
	"nexus-companion/internal/gateway"
)

type AnalysisService struct {
	gw     *gateway.Client
	logger zerolog.Logger
}

func NewAnalysisService(gw *gateway.Client, logger zerolog.Logger) *AnalysisService {
	return &AnalysisService{gw: gw, logger: logger}
}

// ForMatch returns the AI-generated analysis for a match.
func (s *AnalysisService) ForMatch(ctx context.Context, matchID string) (*domain.Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()
	return s.gw.MatchAnalysis(ctx, matchID)
}

// Request asks the backend to generate an analysis. Generation is queued
// remotely; the result arrives on a later ForMatch.
func (s *AnalysisService) Request(ctx context.Context, matchID string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.logger.Info().Str("match_id", matchID).Msg("requesting match analysis")
	return s.gw.RequestAnalysis(ctx, matchID)
}
