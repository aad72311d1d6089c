// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/taibuivan/anngon/internal/platform/apperr"
	"github.com/taibuivan/anngon/internal/platform/ctxutil"
	"github.com/taibuivan/anngon/internal/platform/middleware"
	"github.com/taibuivan/anngon/internal/platform/respond"
	"github.com/taibuivan/anngon/internal/platform/sec"
)

// # Social Login (Google)

// googleUserInfoURL is the endpoint used to resolve the authenticated identity
// after a successful code exchange.
const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleIdentity is the provider-verified identity delivered by the userinfo endpoint.
type GoogleIdentity struct {
	Subject       string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// GoogleProvider wraps the oauth2 three-legged flow against Google.
//
// # Why a wrapper?
//
// Keeping the [oauth2.Config] behind this type lets the HTTP handler and tests
// depend on two small methods instead of the full oauth2 surface.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider builds the provider from client credentials.
// It returns nil when the credentials are not configured, which disables
// the social login routes.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	if clientID == "" || clientSecret == "" {
		return nil
	}

	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// AuthURL returns the provider consent page URL bound to the anti-CSRF state.
func (provider *GoogleProvider) AuthURL(state string) string {
	return provider.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

/*
Exchange trades the authorization code for provider tokens and resolves the identity.

Parameters:
  - context: context.Context
  - code: string (Authorization code from the callback query)

Returns:
  - *GoogleIdentity: Provider-verified identity
  - error: Exchange or userinfo failures
*/
func (provider *GoogleProvider) Exchange(context context.Context, code string) (*GoogleIdentity, error) {

	// Trade the one-time code for an access token
	token, err := provider.config.Exchange(context, code)
	if err != nil {
		return nil, fmt.Errorf("oauth_google_exchange_failed: %w", err)
	}

	// Fetch the identity with the provider-issued token
	client := provider.config.Client(context, token)
	response, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("oauth_google_userinfo_failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("oauth_google_userinfo_read_failed: %w", err)
	}

	identity := &GoogleIdentity{}
	if err := json.Unmarshal(body, identity); err != nil {
		return nil, fmt.Errorf("oauth_google_userinfo_decode_failed: %w", err)
	}

	if identity.Subject == "" || identity.Email == "" {
		return nil, apperr.Unauthorized("Google identity is incomplete")
	}

	return identity, nil
}

// # OAuth HTTP Endpoints

/*
GoogleLogin redirects the browser to the Google consent page.

GET /api/v1/auth/oauth/google

Description: Issues a random anti-CSRF state nonce (stored server-side with a
short TTL) and sends the user to the provider-hosted login.

Response:
  - 307: Redirect to accounts.google.com
  - 503: ErrServiceUnavailable: Social login not configured
*/
func (handler *Handler) googleLogin(writer http.ResponseWriter, request *http.Request) {
	if handler.oauthProvider == nil {
		respond.Error(writer, request, apperr.ServiceUnavailable("Social login is not configured"))
		return
	}

	state, err := sec.GenerateSecureToken(OAuthStateLength)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	// Persist the nonce so the callback can prove the round trip originated here.
	if err := handler.stateRepository.Set(request.Context(), state, "1", OAuthStateTTL); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	http.Redirect(writer, request, handler.oauthProvider.AuthURL(state), http.StatusTemporaryRedirect)
}

/*
GoogleCallback completes the social login round trip.

GET /api/v1/auth/oauth/google/callback?state=...&code=...

Description: Validates the anti-CSRF state, exchanges the code, resolves (or
provisions) the account, and redirects to the storefront success page with
the token pair delivered as query parameters. The success page then performs
the same login sequence as direct credential login.

Response:
  - 307: Redirect to the configured success URL with access_token / refresh_token
  - 401: ErrUnauthorized: State mismatch or failed exchange
*/
func (handler *Handler) googleCallback(writer http.ResponseWriter, request *http.Request) {
	if handler.oauthProvider == nil {
		respond.Error(writer, request, apperr.ServiceUnavailable("Social login is not configured"))
		return
	}

	// 1. Anti-CSRF: the state must be one we issued, and is single-use.
	state := request.URL.Query().Get("state")
	if state == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing OAuth state"))
		return
	}
	if _, err := handler.stateRepository.Get(request.Context(), state); err != nil {
		respond.Error(writer, request, apperr.Unauthorized("Invalid or expired OAuth state"))
		return
	}
	_ = handler.stateRepository.Delete(request.Context(), state)

	// 2. Exchange the authorization code for a verified identity.
	code := request.URL.Query().Get("code")
	if code == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing authorization code"))
		return
	}

	identity, err := handler.oauthProvider.Exchange(request.Context(), code)
	if err != nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "oauth_exchange_failed", "error", err)
		respond.Error(writer, request, apperr.Unauthorized("Google sign-in failed"))
		return
	}

	// 3. Resolve or provision the account and establish the session.
	session, err := handler.authService.LoginWithGoogle(
		request.Context(),
		*identity,
		request.UserAgent(),
		middleware.RealIP(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// 4. Hand the pair to the storefront success page.
	redirect, err := url.Parse(handler.successURL)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	query := redirect.Query()
	query.Set(FieldAccessToken, session.AccessToken)
	query.Set(FieldRefreshToken, session.RefreshToken)
	redirect.RawQuery = query.Encode()

	http.Redirect(writer, request, redirect.String(), http.StatusTemporaryRedirect)
}
