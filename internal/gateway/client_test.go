package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"nexus-companion/internal/config"
	"nexus-companion/internal/gateway"
	"nexus-companion/internal/metrics"
	"nexus-companion/internal/session"
)

func newClient(t *testing.T, baseURL string) (*gateway.Client, *session.Store) {
	t.Helper()
	store := session.NewStore(nil, zerolog.Nop())
	cfg := &config.Config{APIBaseURL: baseURL}
	return gateway.NewClient(cfg, store, metrics.New(), zerolog.Nop()), store
}

func writeEnvelope(w http.ResponseWriter, status int, code string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"status":    status,
		"code":      code,
		"message":   code,
		"data":      data,
	})
}

func userPayload() map[string]any {
	return map[string]any{
		"id":       int64(1),
		"email":    "player@example.com",
		"name":     "Player One",
		"provider": "GOOGLE",
		"role":     "USER",
	}
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, "OK", userPayload())
	}))
	defer srv.Close()

	client, store := newClient(t, srv.URL)
	store.SetTokens("access-1", "refresh-1")

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer access-1", gotAuth)
	require.Equal(t, "player@example.com", user.Email)
}

func TestClient_UnauthenticatedWhenNoToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, "OK", userPayload())
	}))
	defer srv.Close()

	client, _ := newClient(t, srv.URL)

	_, err := client.Me(context.Background())
	require.NoError(t, err)
	require.Empty(t, gotAuth, "request proceeds unauthenticated with no stored token")
}

func TestClient_SingleFlightRefresh(t *testing.T) {
	var refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "refresh-old", r.Header.Get("Refresh-Token"))
		refreshCalls.Add(1)
		time.Sleep(50 * time.Millisecond) // hold the flight open for the burst
		w.Header().Set("Access-Token", "access-new")
		w.Header().Set("Refresh-Token", "refresh-new")
		writeEnvelope(w, http.StatusOK, "OK", nil)
	})
	mux.HandleFunc("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer access-new" {
			writeEnvelope(w, http.StatusOK, "OK", userPayload())
			return
		}
		writeEnvelope(w, http.StatusUnauthorized, "TOKEN_EXPIRED", nil)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, store := newClient(t, srv.URL)
	store.SetTokens("access-old", "refresh-old")

	const concurrent = 5
	var wg sync.WaitGroup
	errs := make([]error, concurrent)
	for i := 0; i < concurrent; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Me(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "request %d", i)
	}
	require.Equal(t, int32(1), refreshCalls.Load(), "exactly one refresh for the whole burst")
	require.Equal(t, "access-new", store.AccessToken())
	require.Equal(t, "refresh-new", store.RefreshToken())
}

func TestClient_RetriesAtMostOnceAfterRefresh(t *testing.T) {
	var refreshCalls, dataCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		w.Header().Set("Access-Token", "access-new")
		w.Header().Set("Refresh-Token", "refresh-new")
		writeEnvelope(w, http.StatusOK, "OK", nil)
	})
	mux.HandleFunc("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		dataCalls.Add(1)
		// Even the refreshed token is rejected.
		writeEnvelope(w, http.StatusUnauthorized, "TOKEN_EXPIRED", nil)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, store := newClient(t, srv.URL)
	store.SetTokens("access-old", "refresh-old")

	_, err := client.Me(context.Background())
	require.Error(t, err)

	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)

	require.Equal(t, int32(1), refreshCalls.Load())
	require.Equal(t, int32(2), dataCalls.Load(), "original dispatch plus exactly one retry")
}

func TestClient_TokenExpiredCodeWithoutStatus401(t *testing.T) {
	var refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		w.Header().Set("Access-Token", "access-new")
		w.Header().Set("Refresh-Token", "refresh-new")
		writeEnvelope(w, http.StatusOK, "OK", nil)
	})
	mux.HandleFunc("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer access-new" {
			writeEnvelope(w, http.StatusOK, "OK", userPayload())
			return
		}
		// The backend signals expiry through the envelope code here, not
		// through the HTTP status.
		writeEnvelope(w, http.StatusBadRequest, "TOKEN_EXPIRED", nil)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, store := newClient(t, srv.URL)
	store.SetTokens("access-old", "refresh-old")

	_, err := client.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), refreshCalls.Load())
}

func TestClient_RefreshFailureClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, "AUTH_FAILED", nil)
	})
	mux.HandleFunc("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, "TOKEN_EXPIRED", nil)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, store := newClient(t, srv.URL)
	store.SetTokens("access-old", "refresh-old")

	_, err := client.Me(context.Background())
	require.ErrorIs(t, err, gateway.ErrSessionExpired)
	require.False(t, store.IsAuthenticated(), "failed refresh is fatal for the session")
	require.Empty(t, store.AccessToken())
}

func TestClient_MissingRefreshTokenFailsFast(t *testing.T) {
	var refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})
	mux.HandleFunc("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, "TOKEN_EXPIRED", nil)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, store := newClient(t, srv.URL)
	// Simulate a half-lost session: the store never persists this shape,
	// but the client must still treat it as fatal.
	store.SetTokens("access-old", "")

	_, err := client.Me(context.Background())
	require.ErrorIs(t, err, gateway.ErrSessionExpired)
	require.Equal(t, int32(0), refreshCalls.Load(), "no refresh call without a refresh token")
	require.False(t, store.IsAuthenticated())
}

func TestClient_MissingDataIsTypedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, "OK", nil)
	}))
	defer srv.Close()

	client, store := newClient(t, srv.URL)
	store.SetTokens("access-1", "refresh-1")

	_, err := client.Me(context.Background())
	require.ErrorIs(t, err, gateway.ErrMissingData)
}

func TestClient_DecodesErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, "NOT_FOUND", nil)
	}))
	defer srv.Close()

	client, store := newClient(t, srv.URL)
	store.SetTokens("access-1", "refresh-1")

	_, err := client.Me(context.Background())
	require.Error(t, err)
	require.True(t, gateway.IsNotFound(err))

	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, gateway.CodeNotFound, apiErr.Code)
}

func TestClient_GoogleLoginReadsHeaderTokens(t *testing.T) {
	t.Run("token pair in headers", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/auth/google", r.URL.Path)
			var body struct {
				IDToken string `json:"idToken"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "google-id-token", body.IDToken)

			w.Header().Set("Access-Token", "access-1")
			w.Header().Set("Refresh-Token", "refresh-1")
			writeEnvelope(w, http.StatusOK, "OK", nil)
		}))
		defer srv.Close()

		client, _ := newClient(t, srv.URL)
		pair, err := client.GoogleLogin(context.Background(), "google-id-token")
		require.NoError(t, err)
		require.Equal(t, "access-1", pair.AccessToken)
		require.Equal(t, "refresh-1", pair.RefreshToken)
	})

	t.Run("missing headers", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, "OK", nil)
		}))
		defer srv.Close()

		client, _ := newClient(t, srv.URL)
		_, err := client.GoogleLogin(context.Background(), "google-id-token")
		require.Error(t, err)
	})
}

func TestClient_LogoutDuringRefreshWins(t *testing.T) {
	refreshStarted := make(chan struct{})
	releaseRefresh := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		close(refreshStarted)
		<-releaseRefresh
		w.Header().Set("Access-Token", "access-new")
		w.Header().Set("Refresh-Token", "refresh-new")
		writeEnvelope(w, http.StatusOK, "OK", nil)
	})
	mux.HandleFunc("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer access-new" {
			writeEnvelope(w, http.StatusOK, "OK", userPayload())
			return
		}
		writeEnvelope(w, http.StatusUnauthorized, "TOKEN_EXPIRED", nil)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, store := newClient(t, srv.URL)
	store.SetTokens("access-old", "refresh-old")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = client.Me(context.Background())
	}()

	<-refreshStarted
	store.Logout()
	close(releaseRefresh)
	<-done

	require.False(t, store.IsAuthenticated(), "logout during an in-flight refresh wins")
	require.Empty(t, store.AccessToken())
}
