package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"nexus-companion/internal/domain"
)

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(db *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{db: db, logger: logger}
}

// UpsertBatch stores a page of match summaries for a summoner in one
// transaction.
func (r *MatchRepository) UpsertBatch(ctx context.Context, gameName, tagLine string, matches []domain.MatchSummary) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO match_cache
			(id, match_id, game_name, tag_line, champion_name, kills, deaths, assists, win,
			 game_duration, game_creation, status, item0, item1, item2, item3, item4, item5, item6,
			 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (match_id, game_name, tag_line) DO UPDATE SET
			champion_name = excluded.champion_name,
			kills = excluded.kills,
			deaths = excluded.deaths,
			assists = excluded.assists,
			win = excluded.win,
			game_duration = excluded.game_duration,
			game_creation = excluded.game_creation,
			status = excluded.status,
			item0 = excluded.item0, item1 = excluded.item1, item2 = excluded.item2,
			item3 = excluded.item3, item4 = excluded.item4, item5 = excluded.item5,
			item6 = excluded.item6,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, m := range matches {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate row id: %w", err)
		}
		_, err = stmt.ExecContext(ctx,
			id, m.MatchID, gameName, tagLine, m.ChampionName,
			m.Kills, m.Deaths, m.Assists, m.Win,
			m.GameDuration, m.GameCreation, string(m.Status),
			m.Items[0], m.Items[1], m.Items[2], m.Items[3], m.Items[4], m.Items[5], m.Items[6],
			now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert match %s: %w", m.MatchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match batch: %w", err)
	}

	r.logger.Debug().
		Int("count", len(matches)).
		Str("game_name", gameName).
		Str("tag_line", tagLine).
		Msg("match cache updated")
	return nil
}

// ListBySummoner returns cached matches, most recent first.
func (r *MatchRepository) ListBySummoner(ctx context.Context, gameName, tagLine string, limit int) ([]domain.MatchSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT match_id, champion_name, kills, deaths, assists, win,
		       game_duration, game_creation, status,
		       item0, item1, item2, item3, item4, item5, item6, created_at
		FROM match_cache
		WHERE game_name = ? AND tag_line = ?
		ORDER BY game_creation DESC
		LIMIT ?`,
		gameName, tagLine, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query match cache: %w", err)
	}
	defer rows.Close()

	var matches []domain.MatchSummary
	for rows.Next() {
		var m domain.MatchSummary
		var status string
		err := rows.Scan(
			&m.MatchID, &m.ChampionName, &m.Kills, &m.Deaths, &m.Assists, &m.Win,
			&m.GameDuration, &m.GameCreation, &status,
			&m.Items[0], &m.Items[1], &m.Items[2], &m.Items[3], &m.Items[4], &m.Items[5], &m.Items[6],
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cached match: %w", err)
		}
		m.Status = domain.MatchStatus(status)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// CountBySummoner reports how many matches are cached for a summoner.
func (r *MatchRepository) CountBySummoner(ctx context.Context, gameName, tagLine string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM match_cache WHERE game_name = ? AND tag_line = ?`,
		gameName, tagLine)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cached matches: %w", err)
	}
	return count, nil
}
