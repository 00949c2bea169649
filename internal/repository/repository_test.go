package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"nexus-companion/internal/config"
	"nexus-companion/internal/database"
	"nexus-companion/internal/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleMatch(matchID string, gameCreation int64) domain.MatchSummary {
	return domain.MatchSummary{
		MatchID:      matchID,
		ChampionName: "Ahri",
		Kills:        7,
		Deaths:       2,
		Assists:      9,
		Win:          true,
		GameDuration: 1843,
		GameCreation: gameCreation,
		Status:       domain.MatchCompleted,
		Items:        [7]int{3089, 3020, 4645, 3135, 0, 0, 3363},
	}
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	loaded, err := repo.LoadSession(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded, "no session persisted yet")

	rec := domain.SessionRecord{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User: &domain.User{
			ID:       42,
			Email:    "player@example.com",
			Name:     "Player One",
			Provider: "GOOGLE",
			Role:     "USER",
		},
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.SaveSession(ctx, rec))

	loaded, err = repo.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, "access-1", loaded.AccessToken)
	require.Equal(t, "refresh-1", loaded.RefreshToken)
	require.NotNil(t, loaded.User)
	require.Equal(t, int64(42), loaded.User.ID)
	require.Equal(t, "player@example.com", loaded.User.Email)
}

func TestSessionRepository_SingleRow(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	first := domain.SessionRecord{AccessToken: "a1", RefreshToken: "r1", UpdatedAt: time.Now()}
	require.NoError(t, repo.SaveSession(ctx, first))

	second := domain.SessionRecord{AccessToken: "a2", RefreshToken: "r2", UpdatedAt: time.Now()}
	require.NoError(t, repo.SaveSession(ctx, second))

	loaded, err := repo.LoadSession(ctx)
	require.NoError(t, err)
	require.Equal(t, "a2", loaded.AccessToken, "second save replaces the singleton row")
	require.Nil(t, loaded.User)
}

func TestSessionRepository_ClearedSession(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.SaveSession(ctx, domain.SessionRecord{
		AccessToken: "a1", RefreshToken: "r1", UpdatedAt: time.Now(),
	}))
	require.NoError(t, repo.SaveSession(ctx, domain.SessionRecord{UpdatedAt: time.Now()}))

	loaded, err := repo.LoadSession(ctx)
	require.NoError(t, err)
	require.Empty(t, loaded.AccessToken)
	require.Empty(t, loaded.RefreshToken)
}

func TestMatchRepository_UpsertAndList(t *testing.T) {
	repo := NewMatchRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	matches := []domain.MatchSummary{
		sampleMatch("KR_100", 1000),
		sampleMatch("KR_300", 3000),
		sampleMatch("KR_200", 2000),
	}
	require.NoError(t, repo.UpsertBatch(ctx, "Hide on bush", "KR1", matches))

	got, err := repo.ListBySummoner(ctx, "Hide on bush", "KR1", 20)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "KR_300", got[0].MatchID, "most recent game first")
	require.Equal(t, "KR_200", got[1].MatchID)
	require.Equal(t, "KR_100", got[2].MatchID)
	require.Equal(t, [7]int{3089, 3020, 4645, 3135, 0, 0, 3363}, got[0].Items)
	require.Equal(t, domain.MatchCompleted, got[0].Status)
}

func TestMatchRepository_UpsertReplacesExisting(t *testing.T) {
	repo := NewMatchRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	original := sampleMatch("KR_100", 1000)
	require.NoError(t, repo.UpsertBatch(ctx, "Hide on bush", "KR1", []domain.MatchSummary{original}))

	updated := original
	updated.Kills = 12
	updated.Status = domain.MatchCompleted
	require.NoError(t, repo.UpsertBatch(ctx, "Hide on bush", "KR1", []domain.MatchSummary{updated}))

	got, err := repo.ListBySummoner(ctx, "Hide on bush", "KR1", 20)
	require.NoError(t, err)
	require.Len(t, got, 1, "same match id upserts in place")
	require.Equal(t, 12, got[0].Kills)

	count, err := repo.CountBySummoner(ctx, "Hide on bush", "KR1")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestMatchRepository_ScopedBySummoner(t *testing.T) {
	repo := NewMatchRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.UpsertBatch(ctx, "Hide on bush", "KR1",
		[]domain.MatchSummary{sampleMatch("KR_100", 1000)}))
	require.NoError(t, repo.UpsertBatch(ctx, "Faker", "T1",
		[]domain.MatchSummary{sampleMatch("KR_100", 1000), sampleMatch("KR_200", 2000)}))

	got, err := repo.ListBySummoner(ctx, "Faker", "T1", 20)
	require.NoError(t, err)
	require.Len(t, got, 2, "the same match id may be cached per summoner")

	count, err := repo.CountBySummoner(ctx, "Hide on bush", "KR1")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestMatchRepository_ListRespectsLimit(t *testing.T) {
	repo := NewMatchRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	var matches []domain.MatchSummary
	for i := 0; i < 5; i++ {
		matches = append(matches, sampleMatch(
			"KR_"+string(rune('A'+i)), int64(1000*(i+1))))
	}
	require.NoError(t, repo.UpsertBatch(ctx, "Hide on bush", "KR1", matches))

	got, err := repo.ListBySummoner(ctx, "Hide on bush", "KR1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int64(5000), got[0].GameCreation)
}

func TestProfileRepository_RoundTrip(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	missing, err := repo.Get(ctx, "Hide on bush", "KR1")
	require.NoError(t, err)
	require.Nil(t, missing)

	profile := &domain.SummonerProfile{
		GameName:       "Hide on bush",
		TagLine:        "KR1",
		SummonerLevel:  742,
		ProfileIconURL: "https://cdn.example.com/icon/6296.png",
		SoloLeague: &domain.LeagueInfo{
			Tier: "CHALLENGER", Rank: "I", LeaguePoints: 1203, Wins: 312, Losses: 201,
		},
	}
	require.NoError(t, repo.Upsert(ctx, profile))

	got, err := repo.Get(ctx, "Hide on bush", "KR1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, 742, got.SummonerLevel)
	require.NotNil(t, got.SoloLeague)
	require.Equal(t, "CHALLENGER", got.SoloLeague.Tier)
	require.Equal(t, 1203, got.SoloLeague.LeaguePoints)
	require.Nil(t, got.FlexLeague, "unranked queue stays nil")
}

func TestProfileRepository_ShouldRefresh(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t), zerolog.Nop())
	ctx := context.Background()

	refresh, err := repo.ShouldRefresh(ctx, "Hide on bush", "KR1", time.Hour)
	require.NoError(t, err)
	require.True(t, refresh, "unknown summoner always refreshes")

	require.NoError(t, repo.Upsert(ctx, &domain.SummonerProfile{
		GameName: "Hide on bush", TagLine: "KR1", SummonerLevel: 742,
	}))

	refresh, err = repo.ShouldRefresh(ctx, "Hide on bush", "KR1", time.Hour)
	require.NoError(t, err)
	require.False(t, refresh, "fresh profile within ttl")

	refresh, err = repo.ShouldRefresh(ctx, "Hide on bush", "KR1", 0)
	require.NoError(t, err)
	require.True(t, refresh, "zero ttl forces refresh")
}
