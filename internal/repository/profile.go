package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"nexus-companion/internal/domain"
)

type ProfileRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewProfileRepository(db *sql.DB, logger zerolog.Logger) *ProfileRepository {
	return &ProfileRepository{db: db, logger: logger}
}

func (r *ProfileRepository) Upsert(ctx context.Context, profile *domain.SummonerProfile) error {
	solo, err := encodeLeague(profile.SoloLeague)
	if err != nil {
		return err
	}
	flex, err := encodeLeague(profile.FlexLeague)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO summoner_profiles
			(game_name, tag_line, summoner_level, profile_icon_url, solo_league_json, flex_league_json, last_fetch_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_name, tag_line) DO UPDATE SET
			summoner_level = excluded.summoner_level,
			profile_icon_url = excluded.profile_icon_url,
			solo_league_json = excluded.solo_league_json,
			flex_league_json = excluded.flex_league_json,
			last_fetch_at = excluded.last_fetch_at,
			updated_at = excluded.updated_at`,
		profile.GameName, profile.TagLine, profile.SummonerLevel, profile.ProfileIconURL,
		solo, flex, now, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert summoner profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) Get(ctx context.Context, gameName, tagLine string) (*domain.SummonerProfile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT game_name, tag_line, summoner_level, profile_icon_url, solo_league_json, flex_league_json, last_fetch_at
		FROM summoner_profiles WHERE game_name = ? AND tag_line = ?`,
		gameName, tagLine)

	var profile domain.SummonerProfile
	var solo, flex sql.NullString
	err := row.Scan(
		&profile.GameName, &profile.TagLine, &profile.SummonerLevel,
		&profile.ProfileIconURL, &solo, &flex, &profile.LastFetchAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load summoner profile: %w", err)
	}

	profile.SoloLeague = decodeLeague(solo, r.logger)
	profile.FlexLeague = decodeLeague(flex, r.logger)
	return &profile, nil
}

// ShouldRefresh reports whether the cached profile is older than ttl. An
// unknown summoner always refreshes.
func (r *ProfileRepository) ShouldRefresh(ctx context.Context, gameName, tagLine string, ttl time.Duration) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT last_fetch_at FROM summoner_profiles WHERE game_name = ? AND tag_line = ?`,
		gameName, tagLine)

	var lastFetch time.Time
	if err := row.Scan(&lastFetch); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return true, nil
		}
		return false, fmt.Errorf("failed to check profile freshness: %w", err)
	}
	return time.Since(lastFetch) > ttl, nil
}

func encodeLeague(league *domain.LeagueInfo) (sql.NullString, error) {
	if league == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(league)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode league info: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func decodeLeague(raw sql.NullString, logger zerolog.Logger) *domain.LeagueInfo {
	if !raw.Valid {
		return nil
	}
	var league domain.LeagueInfo
	if err := json.Unmarshal([]byte(raw.String), &league); err != nil {
		logger.Warn().Err(err).Msg("discarding corrupt cached league info")
		return nil
	}
	return &league
}
