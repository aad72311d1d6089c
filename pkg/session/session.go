// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session implements the client-side session and token lifecycle for
the AnNgon storefront SDK.

The manager owns the access/refresh token pair and the authenticated
identity. It persists the pair in a [kv.Store] so a restart resumes the
session, decides staleness locally by decoding the access token's expiry
claim (no network round trip), and recovers expired sessions through a
single idempotent refresh path.

# State Machine

	Unknown → Loading → {Authenticated | Unauthenticated}
	Authenticated → (expiry detected) → Refreshing → {Authenticated | Unauthenticated}
	any → (logout) → Unauthenticated

Refresh failure is terminal for the session: credentials are purged and the
user must authenticate again.
*/
package session

import (
	"errors"
	"time"
)

// State is the manager's position in the session lifecycle.
type State string

const (
	// StateUnknown is the zero state before the boot check has started.
	StateUnknown State = "unknown"

	// StateLoading covers the initial credential check on application boot.
	StateLoading State = "loading"

	// StateAuthenticated means a usable token pair and identity are held.
	StateAuthenticated State = "authenticated"

	// StateUnauthenticated means no usable credentials are held.
	StateUnauthenticated State = "unauthenticated"

	// StateRefreshing covers an in-flight token exchange.
	StateRefreshing State = "refreshing"
)

const (
	// storageKey is where the token pair lives in the kv store. The
	// "session:" namespace is disjoint from cart keys by convention.
	storageKey = "session:tokens"

	// DefaultLogoutTimeout bounds the best-effort server-side revocation
	// during logout so the caller never blocks on a dead network.
	DefaultLogoutTimeout = 3 * time.Second

	// DefaultExpiryCheckInterval is how often the background watch
	// re-evaluates token staleness.
	DefaultExpiryCheckInterval = 30 * time.Second
)

var (
	// ErrAuthenticationFailed signals bad credentials or an identity fetch
	// that could not be recovered. Surfaced to the login form.
	ErrAuthenticationFailed = errors.New("session: authentication failed")

	// ErrSessionExpired signals that the refresh path failed and the
	// session was demoted to unauthenticated.
	ErrSessionExpired = errors.New("session: session expired")
)

// Identity is the authenticated user as reported by the profile endpoint.
// It is derived state: cached in memory, never persisted, refreshed from
// the server whenever the token pair changes.
type Identity struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role"`
}

// tokenPair is the persisted credential pair.
type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
