package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"nexus-companion/internal/config"
	"nexus-companion/internal/constants"
	"nexus-companion/internal/domain"
	"nexus-companion/internal/gateway"
	"nexus-companion/internal/repository"
	"nexus-companion/internal/stats"
)

type MatchService struct {
	gw          *gateway.Client
	matchRepo   *repository.MatchRepository
	profileRepo *repository.ProfileRepository
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

func NewMatchService(cfg *config.Config, gw *gateway.Client, matchRepo *repository.MatchRepository, profileRepo *repository.ProfileRepository, logger zerolog.Logger) *MatchService {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = constants.MatchCacheTTL
	}
	return &MatchService{gw: gw, matchRepo: matchRepo, profileRepo: profileRepo, cacheTTL: ttl, logger: logger}
}

// MatchHistory is the view payload for a summoner page: profile, recent
// matches, and the aggregate over them. Stats is nil when there are no
// matches to aggregate.
type MatchHistory struct {
	Profile *domain.SummonerProfile
	Matches []domain.MatchSummary
	Stats   *stats.Summary
}

// GetHistory returns a summoner's recent matches with aggregate stats,
// serving from the cache while it is fresh.
func (s *MatchService) GetHistory(ctx context.Context, gameName, tagLine string, refresh bool) (*MatchHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.logger.Info().
		Str("game_name", gameName).
		Str("tag_line", tagLine).
		Bool("refresh", refresh).
		Msg("fetching match history")

	shouldRefresh, err := s.profileRepo.ShouldRefresh(ctx, gameName, tagLine, s.cacheTTL)
	if err != nil {
		return nil, err
	}
	if refresh {
		s.logger.Debug().Msg("manual refresh requested")
		shouldRefresh = true
	}

	if !shouldRefresh {
		history, err := s.fromCache(ctx, gameName, tagLine)
		if err == nil && history != nil {
			s.logger.Info().Int("matches", len(history.Matches)).Msg("returning cached history")
			return history, nil
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("cache read failed, falling back to backend")
		}
	}

	history, err := s.fromBackend(ctx, gameName, tagLine, refresh)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch history from backend")
		return nil, fmt.Errorf("failed to fetch match history: %w", err)
	}
	return history, nil
}

func (s *MatchService) fromCache(ctx context.Context, gameName, tagLine string) (*MatchHistory, error) {
	profile, err := s.profileRepo.Get(ctx, gameName, tagLine)
	if err != nil || profile == nil {
		return nil, err
	}

	matches, err := s.matchRepo.ListBySummoner(ctx, gameName, tagLine, constants.DefaultPageSize)
	if err != nil {
		return nil, err
	}

	history := &MatchHistory{Profile: profile, Matches: matches}
	if summary, ok := stats.Aggregate(matches); ok {
		history.Stats = summary
	}
	return history, nil
}

func (s *MatchService) fromBackend(ctx context.Context, gameName, tagLine string, forceIngest bool) (*MatchHistory, error) {
	if forceIngest {
		// Ask the backend to re-pull from Riot before listing.
		if err := s.gw.RefreshMatches(ctx, gameName, tagLine); err != nil {
			s.logger.Warn().Err(err).Msg("backend re-ingest failed, listing what it has")
		}
	}

	page, profile, err := s.gw.ListMatches(ctx, gameName, tagLine, 0, constants.DefaultPageSize, constants.DefaultMatchSort)
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache summoner profile")
	}
	if err := s.matchRepo.UpsertBatch(ctx, gameName, tagLine, page.Matches); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache matches")
	}

	history := &MatchHistory{Profile: profile, Matches: page.Matches}
	if summary, ok := stats.Aggregate(page.Matches); ok {
		history.Stats = summary
	}
	return history, nil
}

// GetDetail fetches the full scoreboard for one match.
func (s *MatchService) GetDetail(ctx context.Context, matchID string) (*domain.MatchDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()
	return s.gw.MatchDetail(ctx, matchID)
}

// KillParticipation computes the player's kill participation over recent
// matches, loading per-match team kill totals in parallel. ok is false when
// not enough detail data could be loaded; callers render nothing then.
func (s *MatchService) KillParticipation(ctx context.Context, gameName, tagLine, playerName string) (int, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	matches, err := s.matchRepo.ListBySummoner(ctx, gameName, tagLine, constants.DefaultPageSize)
	if err != nil {
		return 0, false, err
	}
	if len(matches) == 0 {
		return 0, false, nil
	}

	teamKills := make(map[string]int, len(matches))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	results := make([]int, len(matches))
	for i, m := range matches {
		i, m := i, m
		g.Go(func() error {
			detail, err := s.gw.MatchDetail(gCtx, m.MatchID)
			if err != nil {
				// Missing detail for one match degrades the sample, it does
				// not fail the computation.
				if gateway.IsNotFound(err) {
					return nil
				}
				return err
			}
			results[i] = playerTeamKills(detail, playerName)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, false, err
	}

	for i, m := range matches {
		if results[i] > 0 {
			teamKills[m.MatchID] = results[i]
		}
	}

	pct, ok := stats.KillParticipation(matches, teamKills)
	return pct, ok, nil
}

// playerTeamKills finds the kill total of the team the player was on.
func playerTeamKills(detail *domain.MatchDetail, playerName string) int {
	if len(detail.Teams) == 0 {
		return 0
	}

	// Scoreboard halves map onto the team list in order.
	half := len(detail.Players) / 2
	for i, p := range detail.Players {
		if p.PlayerName != playerName {
			continue
		}
		teamIdx := 0
		if half > 0 && i >= half {
			teamIdx = 1
		}
		if teamIdx < len(detail.Teams) {
			return detail.Teams[teamIdx].TotalKills
		}
	}
	return 0
}
