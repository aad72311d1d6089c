// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/anngon/pkg/kv"
)

/*
Manager owns the session lifecycle for one client. All methods are safe for
concurrent use; the mutex serializes state transitions so a burst of expired
requests collapses into a single token exchange.
*/
type Manager struct {
	client        *http.Client
	baseURL       string
	storage       kv.Store
	logger        *slog.Logger
	logoutTimeout time.Duration
	now           func() time.Time

	mu       sync.Mutex
	state    State
	pair     *tokenPair
	identity *Identity
}

// Option customizes a Manager.
type Option func(*Manager)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(manager *Manager) { manager.client = client }
}

// WithLogoutTimeout overrides the bound on server-side logout revocation.
func WithLogoutTimeout(timeout time.Duration) Option {
	return func(manager *Manager) { manager.logoutTimeout = timeout }
}

/*
NewManager creates a session manager talking to the API at baseURL and
persisting credentials in storage.

Parameters:
  - baseURL: API origin, e.g. "https://api.anngon.vn/api/v1".
  - storage: durable key-value store shared with the cart.
  - log: structured logger.
  - options: optional overrides.

Returns:
  - *Manager: the manager in [StateUnknown]; call [Manager.CheckInitialAuth]
    to resolve the boot state.
*/
func NewManager(baseURL string, storage kv.Store, log *slog.Logger, options ...Option) *Manager {
	manager := &Manager{
		client:        &http.Client{Timeout: 15 * time.Second},
		baseURL:       baseURL,
		storage:       storage,
		logger:        log,
		logoutTimeout: DefaultLogoutTimeout,
		now:           time.Now,
		state:         StateUnknown,
	}

	for _, option := range options {
		option(manager)
	}

	return manager
}

// State reports the current lifecycle state.
func (manager *Manager) State() State {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.state
}

// CurrentUser returns the cached identity, or nil when unauthenticated.
func (manager *Manager) CurrentUser() *Identity {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if manager.identity == nil {
		return nil
	}
	copied := *manager.identity
	return &copied
}

// AccessToken returns the current access token, or "" when none is held.
func (manager *Manager) AccessToken() string {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if manager.pair == nil {
		return ""
	}
	return manager.pair.AccessToken
}

/*
CheckInitialAuth resolves the boot state. It must be called once on startup,
before the UI decides between the storefront and the login screen.

The protocol:
 1. No stored pair: the user is simply unauthenticated.
 2. Stored pair: fetch the profile to prove the access token still works.
 3. Profile fetch failed: attempt exactly one refresh. A successful
    exchange carries the user in its envelope, so the new pair is
    trusted without a second profile round trip.

Until this returns, [Manager.State] reports [StateLoading] so the caller can
render a splash instead of flashing the login form at a returning user.
*/
func (manager *Manager) CheckInitialAuth(context context.Context) {
	manager.mu.Lock()
	manager.state = StateLoading
	manager.pair = manager.loadPair()
	pair := manager.pair
	manager.mu.Unlock()

	// 1. Nothing stored: resolve immediately
	if pair == nil {
		manager.setUnauthenticated()
		return
	}

	// 2. Prove the stored access token against the profile endpoint
	identity, err := manager.fetchProfile(context, pair.AccessToken)
	if err == nil {
		manager.setAuthenticated(identity)
		return
	}

	manager.logger.Info("session_boot_profile_failed", "error", err)

	// 3. One recovery attempt through the refresh path. The refresh
	// envelope carries the user, so a successful exchange resolves the
	// boot without re-proving the new pair against the profile endpoint.
	if !manager.Refresh(context) {
		return
	}

	manager.mu.Lock()
	identity = manager.identity
	pair = manager.pair
	manager.mu.Unlock()
	if identity != nil {
		manager.setAuthenticated(identity)
		return
	}

	if pair == nil {
		manager.setUnauthenticated()
		return
	}

	// Envelope without a user: hydrate from the profile endpoint. The
	// freshly issued pair stays valid even when hydration fails.
	identity, err = manager.fetchProfile(context, pair.AccessToken)
	if err != nil {
		manager.logger.Warn("session_boot_hydrate_failed", "error", err)
		manager.setAuthenticated(nil)
		return
	}

	manager.setAuthenticated(identity)
}

/*
Login adopts an externally obtained token pair (for example from the OAuth
callback deep link), persists it, and proves it by fetching the profile.

Returns:
  - *Identity: the authenticated user.
  - error: [ErrAuthenticationFailed] when the pair is unusable; local
    credentials are purged before returning.
*/
func (manager *Manager) Login(context context.Context, accessToken, refreshToken string) (*Identity, error) {
	pair := &tokenPair{AccessToken: accessToken, RefreshToken: refreshToken}

	manager.mu.Lock()
	manager.pair = pair
	manager.savePairLocked()
	manager.mu.Unlock()

	identity, err := manager.fetchProfile(context, accessToken)
	if err != nil {
		manager.purge()
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	manager.setAuthenticated(identity)
	return identity, nil
}

/*
LoginWithPassword exchanges credentials for a session. The account field
accepts either username or email, mirroring the login form.

Returns:
  - *Identity: the authenticated user from the login response.
  - error: [ErrAuthenticationFailed] on rejected credentials.
*/
func (manager *Manager) LoginWithPassword(context context.Context, account, password string) (*Identity, error) {
	body := map[string]string{"account": account, "password": password}

	var payload sessionEnvelope
	if err := manager.postJSON(context, "/auth/login", "", body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	pair := &tokenPair{
		AccessToken:  payload.Data.AccessToken,
		RefreshToken: payload.Data.RefreshToken,
	}

	manager.mu.Lock()
	manager.pair = pair
	manager.identity = payload.Data.User
	manager.state = StateAuthenticated
	manager.savePairLocked()
	manager.mu.Unlock()

	return payload.Data.User, nil
}

/*
Logout ends the session. Server-side revocation is best effort: the request
races a fixed timeout, and local credentials are purged either way so the
client is never stuck authenticated against a dead server.
*/
func (manager *Manager) Logout(context context.Context) {
	manager.mu.Lock()
	pair := manager.pair
	manager.mu.Unlock()

	if pair != nil && pair.RefreshToken != "" {
		done := make(chan struct{})
		go func() {
			defer close(done)
			revokeContext, cancel := contextWithTimeout(context, manager.logoutTimeout)
			defer cancel()

			body := map[string]string{"refresh_token": pair.RefreshToken}
			if err := manager.postJSON(revokeContext, "/auth/logout", pair.AccessToken, body, nil); err != nil {
				manager.logger.Info("session_logout_revoke_failed", "error", err)
			}
		}()

		select {
		case <-done:
		case <-time.After(manager.logoutTimeout):
			manager.logger.Info("session_logout_revoke_timeout")
		}
	}

	manager.purge()
}

/*
Refresh exchanges the refresh token for a new pair.

The exchange is idempotent under concurrent invocation: callers serialize on
the manager's mutex, and a caller that finds a fresh access token already in
place (a competitor refreshed first) returns true without a second network
round trip. Failure purges credentials, so repeated calls after revocation
all return false against empty storage.

Returns:
  - bool: true when a usable pair is held after the call.
*/
func (manager *Manager) Refresh(context context.Context) bool {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if manager.pair == nil || manager.pair.RefreshToken == "" {
		return false
	}

	// A competitor already completed the exchange while this caller waited
	if !manager.tokenExpiredLocked() {
		return true
	}

	previous := manager.state
	manager.state = StateRefreshing

	body := map[string]string{"refresh_token": manager.pair.RefreshToken}

	var payload sessionEnvelope
	if err := manager.postJSON(context, "/auth/refresh", "", body, &payload); err != nil {
		manager.logger.Warn("session_refresh_failed", "error", err)
		manager.purgeLocked()
		return false
	}

	manager.pair = &tokenPair{
		AccessToken:  payload.Data.AccessToken,
		RefreshToken: payload.Data.RefreshToken,
	}
	if payload.Data.User != nil {
		manager.identity = payload.Data.User
	}
	manager.savePairLocked()

	if previous == StateUnknown || previous == StateLoading {
		manager.state = previous
	} else {
		manager.state = StateAuthenticated
	}
	return true
}

/*
TokenExpired reports whether the held access token is past its expiry claim.
The decision is purely local: the exp claim is decoded from the token body
without signature verification, since the client only needs a staleness
hint, not proof of authenticity.
*/
func (manager *Manager) TokenExpired() bool {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.tokenExpiredLocked()
}

// TokenSubject returns the sub claim of the held access token, or "".
func (manager *Manager) TokenSubject() string {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if manager.pair == nil {
		return ""
	}
	subject, _ := decodeClaims(manager.pair.AccessToken)
	return subject
}

/*
WatchExpiry runs a periodic staleness check until the context is cancelled,
refreshing proactively when the access token lapses. Intended to run in its
own goroutine for the life of the client.
*/
func (manager *Manager) WatchExpiry(context context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultExpiryCheckInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-context.Done():
			return
		case <-ticker.C:
			if manager.State() != StateAuthenticated {
				continue
			}
			if manager.TokenExpired() && !manager.Refresh(context) {
				manager.logger.Warn("session_expired", "reason", "refresh_failed")
			}
		}
	}
}

// # Internal State Helpers

func (manager *Manager) tokenExpiredLocked() bool {
	if manager.pair == nil || manager.pair.AccessToken == "" {
		return true
	}

	_, expiry := decodeClaims(manager.pair.AccessToken)
	if expiry.IsZero() {
		// Undecodable tokens are treated as expired so the refresh path
		// gets a chance to replace them
		return true
	}
	return !manager.now().Before(expiry)
}

func (manager *Manager) setAuthenticated(identity *Identity) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.identity = identity
	manager.state = StateAuthenticated
}

func (manager *Manager) setUnauthenticated() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.identity = nil
	manager.state = StateUnauthenticated
}

func (manager *Manager) purge() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.purgeLocked()
}

func (manager *Manager) purgeLocked() {
	manager.pair = nil
	manager.identity = nil
	manager.state = StateUnauthenticated
	manager.storage.Remove(storageKey)
}

func (manager *Manager) loadPair() *tokenPair {
	raw, ok := manager.storage.Get(storageKey)
	if !ok {
		return nil
	}

	var pair tokenPair
	if err := json.Unmarshal(raw, &pair); err != nil {
		manager.logger.Warn("session_storage_corrupt", "error", err)
		manager.storage.Remove(storageKey)
		return nil
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return nil
	}
	return &pair
}

func (manager *Manager) savePairLocked() {
	raw, err := json.Marshal(manager.pair)
	if err != nil {
		manager.logger.Error("session_storage_marshal_failed", "error", err)
		return
	}
	manager.storage.Set(storageKey, raw)
}

// # Wire Helpers

// sessionEnvelope is the server's success envelope around a session payload.
type sessionEnvelope struct {
	Data struct {
		AccessToken  string    `json:"access_token"`
		RefreshToken string    `json:"refresh_token"`
		TokenType    string    `json:"token_type"`
		ExpiresIn    int64     `json:"expires_in"`
		User         *Identity `json:"user"`
	} `json:"data"`
}

// profileEnvelope is the server's success envelope around an identity.
type profileEnvelope struct {
	Data Identity `json:"data"`
}

func (manager *Manager) fetchProfile(context context.Context, accessToken string) (*Identity, error) {
	request, err := http.NewRequestWithContext(context, http.MethodGet, manager.baseURL+"/auth/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("session_profile_request_failed: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+accessToken)

	response, err := manager.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("session_profile_call_failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("session_profile_rejected: status %d", response.StatusCode)
	}

	var payload profileEnvelope
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("session_profile_decode_failed: %w", err)
	}
	return &payload.Data, nil
}

func (manager *Manager) postJSON(context context.Context, path, accessToken string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("session_encode_failed: %w", err)
	}

	request, err := http.NewRequestWithContext(context, http.MethodPost, manager.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("session_request_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		request.Header.Set("Authorization", "Bearer "+accessToken)
	}

	response, err := manager.client.Do(request)
	if err != nil {
		return fmt.Errorf("session_call_failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("session_rejected: status %d", response.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("session_decode_failed: %w", err)
	}
	return nil
}

// decodeClaims extracts the subject and expiry from a JWT without verifying
// its signature. The zero time means the claim was absent or undecodable.
func decodeClaims(token string) (string, time.Time) {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return "", time.Time{}
	}

	subject, _ := claims.GetSubject()

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return subject, time.Time{}
	}
	return subject, expiry.Time
}

// contextWithTimeout lives at package level: Manager methods name their
// parameter "context", which shadows the package inside their bodies.
func contextWithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}
