package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"nexus-companion/internal/domain"
	"nexus-companion/internal/session"
)

// recordingPersister captures every snapshot the store writes.
type recordingPersister struct {
	mu    sync.Mutex
	saves []domain.SessionRecord
}

func (p *recordingPersister) SaveSession(_ context.Context, rec domain.SessionRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves = append(p.saves, rec)
	return nil
}

func (p *recordingPersister) all() []domain.SessionRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.SessionRecord(nil), p.saves...)
}

func newStore(t *testing.T) (*session.Store, *recordingPersister) {
	t.Helper()
	p := &recordingPersister{}
	return session.NewStore(p, zerolog.Nop()), p
}

func TestStore_SetTokens(t *testing.T) {
	store, _ := newStore(t)
	require.False(t, store.IsAuthenticated())

	store.SetTokens("access-1", "refresh-1")

	require.True(t, store.IsAuthenticated())
	require.Equal(t, "access-1", store.AccessToken())
	require.Equal(t, "refresh-1", store.RefreshToken())
}

func TestStore_LogoutIdempotent(t *testing.T) {
	store, _ := newStore(t)
	store.SetTokens("access-1", "refresh-1")
	store.SetUser(&domain.User{Email: "player@example.com"})

	store.Logout()
	afterFirst := store.Snapshot()

	store.Logout()
	afterSecond := store.Snapshot()

	require.False(t, store.IsAuthenticated())
	require.Empty(t, afterFirst.AccessToken)
	require.Empty(t, afterFirst.RefreshToken)
	require.Nil(t, afterFirst.User)
	require.Equal(t, afterFirst.AccessToken, afterSecond.AccessToken)
	require.Equal(t, afterFirst.RefreshToken, afterSecond.RefreshToken)
	require.Nil(t, afterSecond.User)
}

func TestStore_NeverPersistsPartialTokenState(t *testing.T) {
	store, p := newStore(t)

	store.SetTokens("access-1", "refresh-1")
	store.SetUser(&domain.User{Email: "player@example.com"})
	store.SetTokens("access-2", "refresh-2")
	store.Logout()

	for _, rec := range p.all() {
		both := rec.AccessToken != "" && rec.RefreshToken != ""
		neither := rec.AccessToken == "" && rec.RefreshToken == ""
		require.True(t, both || neither, "persisted snapshot must never hold half a token pair")
	}
}

func TestStore_SetUserKeepsTokens(t *testing.T) {
	store, _ := newStore(t)
	store.SetTokens("access-1", "refresh-1")

	store.SetUser(&domain.User{Email: "player@example.com"})

	require.True(t, store.IsAuthenticated())
	require.Equal(t, "access-1", store.AccessToken())
	require.NotNil(t, store.User())
}

func TestStore_UpdateUser(t *testing.T) {
	store, _ := newStore(t)

	// No-op with no profile set.
	store.UpdateUser(func(u *domain.User) { u.Name = "ignored" })
	require.Nil(t, store.User())

	store.SetUser(&domain.User{Email: "player@example.com", Name: "Old"})
	store.UpdateUser(func(u *domain.User) { u.Name = "New" })

	user := store.User()
	require.Equal(t, "New", user.Name)
	require.Equal(t, "player@example.com", user.Email)
}

func TestStore_Restore(t *testing.T) {
	store, p := newStore(t)
	before := len(p.all())

	store.Restore(domain.SessionRecord{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         &domain.User{Email: "player@example.com"},
	})

	require.True(t, store.IsAuthenticated())
	require.Len(t, p.all(), before, "restore must not write back")
}

func TestStore_GenerationBumpsOnLogout(t *testing.T) {
	store, _ := newStore(t)
	gen := store.Generation()

	store.SetTokens("access-1", "refresh-1")
	require.Equal(t, gen, store.Generation(), "token writes do not bump the generation")

	store.Logout()
	require.Equal(t, gen+1, store.Generation())
}

func TestStore_UserReturnsCopy(t *testing.T) {
	store, _ := newStore(t)
	store.SetUser(&domain.User{Name: "Original"})

	user := store.User()
	user.Name = "Mutated"

	require.Equal(t, "Original", store.User().Name)
}
