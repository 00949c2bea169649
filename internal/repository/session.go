package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"nexus-companion/internal/domain"
)

// SessionRepository persists the single auth session row so a restart
// restores the logged-in state. Tokens are always written together.
type SessionRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSessionRepository(db *sql.DB, logger zerolog.Logger) *SessionRepository {
	return &SessionRepository{db: db, logger: logger}
}

func (r *SessionRepository) SaveSession(ctx context.Context, rec domain.SessionRecord) error {
	var userJSON sql.NullString
	if rec.User != nil {
		raw, err := json.Marshal(rec.User)
		if err != nil {
			return fmt.Errorf("failed to encode user profile: %w", err)
		}
		userJSON = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session (id, access_token, refresh_token, user_json, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			user_json = excluded.user_json,
			updated_at = excluded.updated_at`,
		rec.AccessToken, rec.RefreshToken, userJSON, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// LoadSession returns the persisted session, or nil when none was saved.
func (r *SessionRepository) LoadSession(ctx context.Context) (*domain.SessionRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT access_token, refresh_token, user_json, updated_at
		FROM session WHERE id = 1`)

	var rec domain.SessionRecord
	var userJSON sql.NullString
	if err := row.Scan(&rec.AccessToken, &rec.RefreshToken, &userJSON, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if userJSON.Valid {
		var user domain.User
		if err := json.Unmarshal([]byte(userJSON.String), &user); err != nil {
			r.logger.Warn().Err(err).Msg("discarding corrupt persisted user profile")
		} else {
			rec.User = &user
		}
	}
	return &rec, nil
}
