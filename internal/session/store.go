// Package session holds the authenticated session against the remote
// backend: the bearer token pair and the cached user profile.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"nexus-companion/internal/domain"
)

// Persister saves the session snapshot so it survives restarts. Tokens are
// always written as a pair; a snapshot with empty tokens clears the row.
type Persister interface {
	SaveSession(ctx context.Context, rec domain.SessionRecord) error
}

// Store is the single owner of auth state. All mutations go through its
// methods and replace token state wholesale, so an access token without a
// matching refresh token can never be observed or persisted.
type Store struct {
	mu            sync.RWMutex
	accessToken   string
	refreshToken  string
	user          *domain.User
	authenticated bool
	generation    uint64

	persister Persister
	logger    zerolog.Logger
}

func NewStore(persister Persister, logger zerolog.Logger) *Store {
	return &Store{
		persister: persister,
		logger:    logger.With().Str("component", "session").Logger(),
	}
}

// SetTokens replaces both tokens atomically and marks the session
// authenticated. Token contents are opaque and not validated here.
func (s *Store) SetTokens(access, refresh string) {
	s.mu.Lock()
	s.accessToken = access
	s.refreshToken = refresh
	s.authenticated = access != "" && refresh != ""
	rec := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(rec)
}

// SetUser stores the profile without touching token state.
func (s *Store) SetUser(user *domain.User) {
	s.mu.Lock()
	s.user = user
	rec := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(rec)
}

// UpdateUser applies a partial update to the cached profile. No-op when no
// profile is set.
func (s *Store) UpdateUser(apply func(*domain.User)) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	updated := *s.user
	apply(&updated)
	s.user = &updated
	rec := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(rec)
}

// Logout clears tokens, profile, and the authenticated flag in one step.
// Safe to call when already logged out.
func (s *Store) Logout() {
	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.user = nil
	s.authenticated = false
	s.generation++
	rec := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(rec)
	s.logger.Info().Msg("session cleared")
}

// Restore loads a previously persisted session without writing it back.
func (s *Store) Restore(rec domain.SessionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = rec.AccessToken
	s.refreshToken = rec.RefreshToken
	s.user = rec.User
	s.authenticated = rec.AccessToken != "" && rec.RefreshToken != ""
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Generation increments on every logout. Lets a caller that was holding
// tokens across a suspension point detect that the user logged out meanwhile.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *Store) Snapshot() domain.SessionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() domain.SessionRecord {
	rec := domain.SessionRecord{
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
		UpdatedAt:    time.Now(),
	}
	if s.user != nil {
		u := *s.user
		rec.User = &u
	}
	return rec
}

func (s *Store) persist(rec domain.SessionRecord) {
	if s.persister == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.persister.SaveSession(ctx, rec); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist session")
	}
}
