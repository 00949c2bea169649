package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"nexus-companion/internal/constants"
	"nexus-companion/internal/domain"
	"nexus-companion/internal/gateway"
	"nexus-companion/internal/repository"
	"nexus-companion/internal/session"
)

type AuthService struct {
	gw     *gateway.Client
	store  *session.Store
	repo   *repository.SessionRepository
	logger zerolog.Logger
}

func NewAuthService(gw *gateway.Client, store *session.Store, repo *repository.SessionRepository, logger zerolog.Logger) *AuthService {
	return &AuthService{gw: gw, store: store, repo: repo, logger: logger}
}

// Restore loads the persisted session at startup. Missing or logged-out
// state is not an error.
func (s *AuthService) Restore(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	rec, err := s.repo.LoadSession(ctx)
	if err != nil {
		return err
	}
	if rec == nil || rec.AccessToken == "" || rec.RefreshToken == "" {
		s.logger.Info().Msg("no persisted session, starting logged out")
		return nil
	}

	s.store.Restore(*rec)
	s.logger.Info().Bool("has_profile", rec.User != nil).Msg("session restored")
	return nil
}

// CompleteLogin finishes the deep-link login flow: it exchanges the identity
// token for a backend token pair, stores the pair atomically, and fetches
// the profile. A 404 from the profile endpoint is resolved with a
// token-derived fallback profile instead of failing the login.
func (s *AuthService) CompleteLogin(ctx context.Context, idToken string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	pair, err := s.gw.GoogleLogin(ctx, idToken)
	if err != nil {
		s.logger.Error().Err(err).Msg("login exchange failed")
		return nil, fmt.Errorf("login failed: %w", err)
	}

	s.store.SetTokens(pair.AccessToken, pair.RefreshToken)

	user, err := s.gw.Me(ctx)
	if err != nil {
		if !gateway.IsNotFound(err) {
			s.logger.Error().Err(err).Msg("profile fetch failed after login")
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}

		s.logger.Warn().Msg("profile not found, deriving fallback from token")
		user, err = session.FallbackUser(pair.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("failed to derive fallback profile: %w", err)
		}
	}

	s.store.SetUser(user)
	s.logger.Info().Str("email", user.Email).Msg("login completed")
	return user, nil
}

// Logout revokes the backend session best-effort and always clears local
// state. Idempotent.
func (s *AuthService) Logout(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	if s.store.IsAuthenticated() {
		if err := s.gw.Logout(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
		}
	}
	s.store.Logout()
}

// CurrentUser returns the cached profile, refreshing it from the backend
// when asked.
func (s *AuthService) CurrentUser(ctx context.Context, refresh bool) (*domain.User, error) {
	if !refresh {
		if user := s.store.User(); user != nil {
			return user, nil
		}
	}
	if !s.store.IsAuthenticated() {
		return nil, fmt.Errorf("not logged in: %w", gateway.ErrSessionExpired)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	user, err := s.gw.Me(ctx)
	if err != nil {
		return nil, err
	}
	s.store.SetUser(user)
	return user, nil
}

// LinkRiot attaches a Riot identity to the account and updates the cached
// profile.
func (s *AuthService) LinkRiot(ctx context.Context, summonerName, tagLine string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	user, err := s.gw.LinkRiot(ctx, summonerName, tagLine)
	if err != nil {
		s.logger.Error().Err(err).Str("summoner", summonerName).Msg("riot link failed")
		return nil, err
	}
	s.store.SetUser(user)
	return user, nil
}

func (s *AuthService) UnlinkRiot(ctx context.Context) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	user, err := s.gw.UnlinkRiot(ctx)
	if err != nil {
		return nil, err
	}
	s.store.SetUser(user)
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, name, profileImage string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	user, err := s.gw.UpdateUser(ctx, name, profileImage)
	if err != nil {
		return nil, err
	}
	s.store.SetUser(user)
	return user, nil
}

func (s *AuthService) Settings(ctx context.Context) (*domain.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()
	return s.gw.GetSettings(ctx)
}

func (s *AuthService) UpdateSettings(ctx context.Context, settings domain.Settings) (*domain.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()
	return s.gw.UpdateSettings(ctx, settings)
}

// DeleteAccount removes the account remotely and clears the local session.
func (s *AuthService) DeleteAccount(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if err := s.gw.DeleteAccount(ctx); err != nil {
		return err
	}
	s.store.Logout()
	return nil
}
