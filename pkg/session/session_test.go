// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/anngon/pkg/kv"
	"github.com/taibuivan/anngon/pkg/session"
)

const testUserID = "0198c3a0-0000-7000-8000-000000000001"

// mintToken creates a decodable JWT with the given subject and lifetime.
// The signature key is irrelevant: the client never verifies it.
func mintToken(t *testing.T, subject string, ttl time.Duration) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-only"))
	require.NoError(t, err)
	return token
}

// authServer is a minimal stand-in for the /auth surface. Tokens it issues
// are tracked so revocation and rotation can be asserted.
type authServer struct {
	t *testing.T

	mu           sync.Mutex
	validAccess  map[string]bool
	validRefresh map[string]bool
	logoutDelay  time.Duration
	profileDown  bool
	refreshCalls atomic.Int64
	logoutCalls  atomic.Int64
}

func newAuthServer(t *testing.T) *authServer {
	return &authServer{
		t:            t,
		validAccess:  make(map[string]bool),
		validRefresh: make(map[string]bool),
	}
}

func (server *authServer) issue(ttl time.Duration) (string, string) {
	access := mintToken(server.t, testUserID, ttl)
	refresh := mintToken(server.t, testUserID, 24*time.Hour)

	server.mu.Lock()
	// An already-expired access token is rejected like any other invalid one
	if ttl > 0 {
		server.validAccess[access] = true
	}
	server.validRefresh[refresh] = true
	server.mu.Unlock()
	return access, refresh
}

func (server *authServer) revokeAll() {
	server.mu.Lock()
	server.validAccess = make(map[string]bool)
	server.validRefresh = make(map[string]bool)
	server.mu.Unlock()
}

func (server *authServer) sessionBody(access, refresh string) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"access_token":  access,
			"refresh_token": refresh,
			"token_type":    "Bearer",
			"expires_in":    int64(900),
			"user":          map[string]any{"id": testUserID, "username": "linh", "role": "member"},
		},
	}
}

func (server *authServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(writer http.ResponseWriter, request *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
			writer.WriteHeader(http.StatusBadRequest)
			return
		}

		if body["account"] != "linh" || body["password"] != "correct-horse" {
			writer.WriteHeader(http.StatusUnauthorized)
			return
		}
		access, refresh := server.issue(15 * time.Minute)
		writeJSON(writer, http.StatusOK, server.sessionBody(access, refresh))
	})

	mux.HandleFunc("GET /auth/profile", func(writer http.ResponseWriter, request *http.Request) {
		token := bearerToken(request)

		server.mu.Lock()
		ok := server.validAccess[token]
		down := server.profileDown
		server.mu.Unlock()

		if down {
			writer.WriteHeader(http.StatusInternalServerError)
			return
		}

		if !ok {
			writer.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(writer, http.StatusOK, map[string]any{
			"data": map[string]any{"id": testUserID, "username": "linh", "role": "member"},
		})
	})

	mux.HandleFunc("POST /auth/refresh", func(writer http.ResponseWriter, request *http.Request) {
		server.refreshCalls.Add(1)

		var body map[string]string
		if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
			writer.WriteHeader(http.StatusBadRequest)
			return
		}

		server.mu.Lock()
		ok := server.validRefresh[body["refresh_token"]]
		if ok {
			// Rotation: the presented token is consumed
			delete(server.validRefresh, body["refresh_token"])
		}
		server.mu.Unlock()

		if !ok {
			writer.WriteHeader(http.StatusUnauthorized)
			return
		}
		access, refresh := server.issue(15 * time.Minute)
		writeJSON(writer, http.StatusOK, server.sessionBody(access, refresh))
	})

	mux.HandleFunc("POST /auth/logout", func(writer http.ResponseWriter, request *http.Request) {
		server.logoutCalls.Add(1)

		server.mu.Lock()
		delay := server.logoutDelay
		server.mu.Unlock()
		if delay > 0 {
			time.Sleep(delay)
		}

		server.revokeAll()
		writer.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func writeJSON(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(body)
}

func bearerToken(request *http.Request) string {
	header := request.Header.Get("Authorization")
	if len(header) > 7 && header[:7] == "Bearer " {
		return header[7:]
	}
	return ""
}

func newTestManager(t *testing.T, server *authServer, storage kv.Store) *session.Manager {
	t.Helper()

	testServer := httptest.NewServer(server.handler())
	t.Cleanup(testServer.Close)

	return session.NewManager(testServer.URL, storage, slog.Default(),
		session.WithLogoutTimeout(500*time.Millisecond))
}

/*
TestLoginWithPassword_EstablishesSession covers the happy path: credentials
in, authenticated state with a decodable subject out.
*/
func TestLoginWithPassword_EstablishesSession(t *testing.T) {
	server := newAuthServer(t)
	storage := kv.NewMemory()
	manager := newTestManager(t, server, storage)

	identity, err := manager.LoginWithPassword(context.Background(), "linh", "correct-horse")
	require.NoError(t, err)

	assert.Equal(t, session.StateAuthenticated, manager.State())
	assert.Equal(t, testUserID, identity.ID)

	// The token subject and the profile id describe the same user
	assert.Equal(t, identity.ID, manager.TokenSubject())
	assert.False(t, manager.TokenExpired())

	// The pair is durable
	_, ok := storage.Get("session:tokens")
	assert.True(t, ok)
}

/*
TestLoginWithPassword_RejectsBadCredentials verifies the error taxonomy and
that no partial state leaks.
*/
func TestLoginWithPassword_RejectsBadCredentials(t *testing.T) {
	server := newAuthServer(t)
	storage := kv.NewMemory()
	manager := newTestManager(t, server, storage)

	_, err := manager.LoginWithPassword(context.Background(), "linh", "wrong")
	require.ErrorIs(t, err, session.ErrAuthenticationFailed)

	assert.Nil(t, manager.CurrentUser())
	_, ok := storage.Get("session:tokens")
	assert.False(t, ok)
}

/*
TestLogin_PurgesOnUnusablePair covers adopting an external token pair that
the server rejects: the pair must not survive locally.
*/
func TestLogin_PurgesOnUnusablePair(t *testing.T) {
	server := newAuthServer(t)
	storage := kv.NewMemory()
	manager := newTestManager(t, server, storage)

	forged := mintToken(t, testUserID, time.Hour)
	_, err := manager.Login(context.Background(), forged, "not-a-refresh-token")
	require.ErrorIs(t, err, session.ErrAuthenticationFailed)

	assert.Equal(t, session.StateUnauthenticated, manager.State())
	_, ok := storage.Get("session:tokens")
	assert.False(t, ok)
}

/*
TestCheckInitialAuth_BootOutcomes walks the boot protocol: no credentials,
valid credentials, credentials recoverable only through refresh, and
credentials nothing can save.
*/
func TestCheckInitialAuth_BootOutcomes(t *testing.T) {
	t.Run("no stored credentials", func(t *testing.T) {
		manager := newTestManager(t, newAuthServer(t), kv.NewMemory())

		manager.CheckInitialAuth(context.Background())

		assert.Equal(t, session.StateUnauthenticated, manager.State())
	})

	t.Run("valid stored credentials", func(t *testing.T) {
		server := newAuthServer(t)
		storage := kv.NewMemory()
		access, refresh := server.issue(15 * time.Minute)
		seedStorage(t, storage, access, refresh)

		manager := newTestManager(t, server, storage)
		manager.CheckInitialAuth(context.Background())

		assert.Equal(t, session.StateAuthenticated, manager.State())
		require.NotNil(t, manager.CurrentUser())
		assert.Equal(t, testUserID, manager.CurrentUser().ID)
	})

	t.Run("stale access token recovered by refresh", func(t *testing.T) {
		server := newAuthServer(t)
		storage := kv.NewMemory()
		access, refresh := server.issue(-time.Minute) // already expired
		seedStorage(t, storage, access, refresh)

		manager := newTestManager(t, server, storage)
		manager.CheckInitialAuth(context.Background())

		assert.Equal(t, session.StateAuthenticated, manager.State())
		assert.Equal(t, int64(1), server.refreshCalls.Load())
	})

	t.Run("refresh alone resolves the boot when the profile endpoint is down", func(t *testing.T) {
		server := newAuthServer(t)
		storage := kv.NewMemory()
		access, refresh := server.issue(-time.Minute)
		seedStorage(t, storage, access, refresh)

		// Only the refresh exchange works; any profile fetch fails. The
		// identity in the refresh envelope must carry the boot, and the
		// freshly issued pair must survive.
		server.mu.Lock()
		server.profileDown = true
		server.mu.Unlock()

		manager := newTestManager(t, server, storage)
		manager.CheckInitialAuth(context.Background())

		assert.Equal(t, session.StateAuthenticated, manager.State())
		assert.Equal(t, int64(1), server.refreshCalls.Load())
		require.NotNil(t, manager.CurrentUser())
		assert.Equal(t, testUserID, manager.CurrentUser().ID)

		_, ok := storage.Get("session:tokens")
		assert.True(t, ok)
	})

	t.Run("unrecoverable credentials are purged", func(t *testing.T) {
		server := newAuthServer(t)
		storage := kv.NewMemory()
		access, refresh := server.issue(-time.Minute)
		server.revokeAll()
		seedStorage(t, storage, access, refresh)

		manager := newTestManager(t, server, storage)
		manager.CheckInitialAuth(context.Background())

		assert.Equal(t, session.StateUnauthenticated, manager.State())
		_, ok := storage.Get("session:tokens")
		assert.False(t, ok)
	})
}

/*
TestRefresh_IdempotentAfterRevocation drives the exchange against a server
that has revoked the refresh token: every attempt reports failure and local
storage stays empty, no matter how many times it is retried.
*/
func TestRefresh_IdempotentAfterRevocation(t *testing.T) {
	server := newAuthServer(t)
	storage := kv.NewMemory()
	manager := newTestManager(t, server, storage)

	_, err := manager.LoginWithPassword(context.Background(), "linh", "correct-horse")
	require.NoError(t, err)

	server.revokeAll()

	// Force staleness by replacing the stored pair with an expired access token
	expired := mintToken(t, testUserID, -time.Minute)
	refresh := mintToken(t, testUserID, 24*time.Hour)
	seedStorage(t, storage, expired, refresh)
	manager.CheckInitialAuth(context.Background())

	for i := 0; i < 3; i++ {
		assert.False(t, manager.Refresh(context.Background()))

		_, ok := storage.Get("session:tokens")
		assert.False(t, ok)
		assert.Equal(t, session.StateUnauthenticated, manager.State())
	}
}

/*
TestRefresh_ConcurrentCallsCollapse launches competing refreshes against a
rotating server. Rotation consumes each refresh token on use, so more than
one real exchange would fail — all callers must still come back true.
*/
func TestRefresh_ConcurrentCallsCollapse(t *testing.T) {
	server := newAuthServer(t)
	storage := kv.NewMemory()

	access, refresh := server.issue(-time.Minute) // expired, refresh required
	seedStorage(t, storage, access, refresh)

	manager := newTestManager(t, server, storage)
	manager.CheckInitialAuth(context.Background())
	require.Equal(t, session.StateAuthenticated, manager.State())

	before := server.refreshCalls.Load()

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			results[slot] = manager.Refresh(context.Background())
		}(i)
	}
	wg.Wait()

	for _, ok := range results {
		assert.True(t, ok)
	}
	assert.Equal(t, session.StateAuthenticated, manager.State())
	assert.LessOrEqual(t, server.refreshCalls.Load()-before, int64(1))
}

/*
TestLogout_AlwaysPurges covers both a reachable and an unreachable server:
local credentials disappear either way.
*/
func TestLogout_AlwaysPurges(t *testing.T) {
	t.Run("server reachable", func(t *testing.T) {
		server := newAuthServer(t)
		storage := kv.NewMemory()
		manager := newTestManager(t, server, storage)

		_, err := manager.LoginWithPassword(context.Background(), "linh", "correct-horse")
		require.NoError(t, err)

		manager.Logout(context.Background())

		assert.Equal(t, session.StateUnauthenticated, manager.State())
		assert.Nil(t, manager.CurrentUser())
		assert.Equal(t, int64(1), server.logoutCalls.Load())
		_, ok := storage.Get("session:tokens")
		assert.False(t, ok)
	})

	t.Run("revocation slower than the timeout", func(t *testing.T) {
		server := newAuthServer(t)
		server.logoutDelay = time.Second

		storage := kv.NewMemory()
		manager := newTestManager(t, server, storage)

		_, err := manager.LoginWithPassword(context.Background(), "linh", "correct-horse")
		require.NoError(t, err)

		started := time.Now()
		manager.Logout(context.Background())
		assert.Less(t, time.Since(started), server.logoutDelay)

		assert.Equal(t, session.StateUnauthenticated, manager.State())
		_, ok := storage.Get("session:tokens")
		assert.False(t, ok)
	})
}

/*
TestTokenExpired_LocalDecision verifies staleness is decided from the exp
claim alone.
*/
func TestTokenExpired_LocalDecision(t *testing.T) {
	server := newAuthServer(t)
	storage := kv.NewMemory()

	access, refresh := server.issue(15 * time.Minute)
	seedStorage(t, storage, access, refresh)

	manager := newTestManager(t, server, storage)
	manager.CheckInitialAuth(context.Background())

	assert.False(t, manager.TokenExpired())

	seedStorage(t, storage, mintToken(t, testUserID, -time.Second), refresh)
	manager.CheckInitialAuth(context.Background())
	// The reloaded pair is stale, so boot went through refresh; the result
	// must again be a live token
	assert.False(t, manager.TokenExpired())
}

func seedStorage(t *testing.T, storage kv.Store, access, refresh string) {
	t.Helper()

	raw, err := json.Marshal(map[string]string{
		"access_token":  access,
		"refresh_token": refresh,
	})
	require.NoError(t, err)
	storage.Set("session:tokens", raw)
}
