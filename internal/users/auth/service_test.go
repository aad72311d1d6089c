// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/anngon/internal/platform/apperr"
	"github.com/taibuivan/anngon/internal/platform/sec"
	"github.com/taibuivan/anngon/internal/users/auth"
)

// # Test Doubles

type memoryUserRepository struct {
	users map[string]*auth.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*auth.User)}
}

func (repository *memoryUserRepository) find(match func(*auth.User) bool) (*auth.User, error) {
	for _, user := range repository.users {
		if match(user) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *memoryUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	return repository.find(func(u *auth.User) bool { return u.ID == id })
}

func (repository *memoryUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return repository.find(func(u *auth.User) bool { return u.Email == email })
}

func (repository *memoryUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return repository.find(func(u *auth.User) bool { return u.Username == username })
}

func (repository *memoryUserRepository) FindByGoogleID(_ context.Context, googleID string) (*auth.User, error) {
	return repository.find(func(u *auth.User) bool { return u.GoogleID == googleID })
}

func (repository *memoryUserRepository) Create(_ context.Context, user *auth.User) error {
	for _, existing := range repository.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperr.Conflict("Account already exists")
		}
	}
	repository.users[user.ID] = user
	return nil
}

func (repository *memoryUserRepository) Update(_ context.Context, user *auth.User) error {
	repository.users[user.ID] = user
	return nil
}

func (repository *memoryUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (repository *memoryUserRepository) LinkGoogleID(_ context.Context, userID, googleID string) error {
	user, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.GoogleID = googleID
	return nil
}

func (repository *memoryUserRepository) SoftDelete(_ context.Context, userID string) error {
	delete(repository.users, userID)
	return nil
}

func (repository *memoryUserRepository) MarkVerified(_ context.Context, userID string) error {
	user, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.IsVerified = true
	return nil
}

type memorySessionRepository struct {
	sessions map[string]*auth.Session
}

func newMemorySessionRepository() *memorySessionRepository {
	return &memorySessionRepository{sessions: make(map[string]*auth.Session)}
}

func (repository *memorySessionRepository) Create(_ context.Context, session *auth.Session) error {
	repository.sessions[session.ID] = session
	return nil
}

func (repository *memorySessionRepository) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	for _, session := range repository.sessions {
		if session.TokenHash == tokenHash && !session.IsRevoked && session.ExpiresAt.After(time.Now()) {
			return session, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (repository *memorySessionRepository) Revoke(_ context.Context, sessionID string) error {
	session, ok := repository.sessions[sessionID]
	if !ok {
		return apperr.NotFound("Session")
	}
	session.IsRevoked = true
	return nil
}

func (repository *memorySessionRepository) RevokeAll(_ context.Context, userID string) error {
	for _, session := range repository.sessions {
		if session.UserID == userID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (repository *memorySessionRepository) RevokeOthers(_ context.Context, userID, currentSessionID string) error {
	for _, session := range repository.sessions {
		if session.UserID == userID && session.ID != currentSessionID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (repository *memorySessionRepository) DeleteExpired(_ context.Context) error {
	for id, session := range repository.sessions {
		if session.ExpiresAt.Before(time.Now()) {
			delete(repository.sessions, id)
		}
	}
	return nil
}

func (repository *memorySessionRepository) activeCount(userID string) int {
	count := 0
	for _, session := range repository.sessions {
		if session.UserID == userID && !session.IsRevoked {
			count++
		}
	}
	return count
}

type memoryTokenRepository struct {
	values map[string]string
}

func newMemoryTokenRepository() *memoryTokenRepository {
	return &memoryTokenRepository{values: make(map[string]string)}
}

func (repository *memoryTokenRepository) Set(_ context.Context, token, value string, _ time.Duration) error {
	repository.values[token] = value
	return nil
}

func (repository *memoryTokenRepository) Get(_ context.Context, token string) (string, error) {
	value, ok := repository.values[token]
	if !ok {
		return "", apperr.NotFound("Token is invalid or expired")
	}
	return value, nil
}

func (repository *memoryTokenRepository) Delete(_ context.Context, token string) error {
	delete(repository.values, token)
	return nil
}

type staticTokenProvider struct{}

func (staticTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "access:" + userID, nil
}

// # Fixtures

type fixture struct {
	service  *auth.Service
	users    *memoryUserRepository
	sessions *memorySessionRepository
	reset    *memoryTokenRepository
	verify   *memoryTokenRepository
}

func newFixture() *fixture {
	users := newMemoryUserRepository()
	sessions := newMemorySessionRepository()
	reset := newMemoryTokenRepository()
	verify := newMemoryTokenRepository()

	return &fixture{
		service:  auth.NewService(users, sessions, reset, verify, staticTokenProvider{}),
		users:    users,
		sessions: sessions,
		reset:    reset,
		verify:   verify,
	}
}

func registerInput() auth.RegisterInput {
	return auth.RegisterInput{
		Username:  "linh",
		Email:     "linh@anngon.vn",
		Password:  "correct-horse",
		FirstName: "Linh",
		LastName:  "Nguyễn",
	}
}

// # Registration

/*
TestRegister covers enrollment, hashing, and the uniqueness conflicts.
*/
func TestRegister(t *testing.T) {
	t.Run("creates a member account with a hashed password", func(t *testing.T) {
		f := newFixture()

		user, err := f.service.Register(context.Background(), registerInput())
		require.NoError(t, err)

		assert.Equal(t, sec.RoleMember, user.Role)
		assert.False(t, user.IsVerified)
		assert.NotEqual(t, "correct-horse", user.PasswordHash)
		assert.True(t, sec.CheckPasswordHash("correct-horse", user.PasswordHash))

		// A verification token was parked for the email side effect
		assert.NotEmpty(t, f.verify.values)
	})

	t.Run("merchant sign-up gets the owner role", func(t *testing.T) {
		f := newFixture()

		input := registerInput()
		input.IsOwner = true

		user, err := f.service.Register(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, sec.RoleOwner, user.Role)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.Register(context.Background(), registerInput())
		require.NoError(t, err)

		input := registerInput()
		input.Username = "someone-else"

		_, err = f.service.Register(context.Background(), input)
		require.Error(t, err)
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.Register(context.Background(), registerInput())
		require.NoError(t, err)

		input := registerInput()
		input.Email = "other@anngon.vn"

		_, err = f.service.Register(context.Background(), input)
		require.Error(t, err)
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})
}

// # Login & Sessions

/*
TestLogin covers the flexible account lookup and the uniform rejection of
bad credentials.
*/
func TestLogin(t *testing.T) {
	t.Run("by username and by email", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.Register(context.Background(), registerInput())
		require.NoError(t, err)

		for _, account := range []string{"linh", "linh@anngon.vn"} {
			session, err := f.service.Login(context.Background(), auth.LoginInput{
				Account:  account,
				Password: "correct-horse",
			})
			require.NoError(t, err, "account %q", account)
			assert.NotEmpty(t, session.AccessToken)
			assert.NotEmpty(t, session.RefreshToken)
			assert.Equal(t, "linh", session.User.Username)
		}
	})

	t.Run("wrong password and unknown account fail identically", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.Register(context.Background(), registerInput())
		require.NoError(t, err)

		_, wrongPassword := f.service.Login(context.Background(), auth.LoginInput{Account: "linh", Password: "nope"})
		_, unknownAccount := f.service.Login(context.Background(), auth.LoginInput{Account: "ghost", Password: "nope"})

		require.Error(t, wrongPassword)
		require.Error(t, unknownAccount)
		assert.Equal(t, wrongPassword.Error(), unknownAccount.Error(), "messages must not reveal which part failed")
		assert.Equal(t, "UNAUTHORIZED", apperr.As(wrongPassword).Code)
	})
}

/*
TestRefreshSession_Rotation verifies the rotation contract: the old refresh
token dies the moment it is exchanged, and replaying it fails.
*/
func TestRefreshSession_Rotation(t *testing.T) {
	f := newFixture()
	_, err := f.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	first, err := f.service.Login(context.Background(), auth.LoginInput{Account: "linh", Password: "correct-horse"})
	require.NoError(t, err)

	second, err := f.service.RefreshSession(context.Background(), first.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// Replay of the consumed token is rejected
	_, err = f.service.RefreshSession(context.Background(), first.RefreshToken, "", "")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	// Only the rotated session remains active
	assert.Equal(t, 1, f.sessions.activeCount(second.User.ID))
}

/*
TestLogout is idempotent: revoking twice, or revoking garbage, succeeds.
*/
func TestLogout(t *testing.T) {
	f := newFixture()
	_, err := f.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	session, err := f.service.Login(context.Background(), auth.LoginInput{Account: "linh", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background(), session.RefreshToken))
	assert.Equal(t, 0, f.sessions.activeCount(session.User.ID))

	require.NoError(t, f.service.Logout(context.Background(), session.RefreshToken))
	require.NoError(t, f.service.Logout(context.Background(), "never-issued"))

	// The revoked token can no longer be exchanged
	_, err = f.service.RefreshSession(context.Background(), session.RefreshToken, "", "")
	require.Error(t, err)
}

// # Recovery Flows

/*
TestPasswordReset walks the forgot-password round trip and confirms the
security cleanup revokes every live session.
*/
func TestPasswordReset(t *testing.T) {
	f := newFixture()
	_, err := f.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = f.service.Login(context.Background(), auth.LoginInput{Account: "linh", Password: "correct-horse"})
	require.NoError(t, err)

	token, err := f.service.RequestPasswordReset(context.Background(), "linh@anngon.vn")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, f.service.ResetPassword(context.Background(), token, "battery-staple"))

	// Old password dead, new one live, all sessions gone
	_, err = f.service.Login(context.Background(), auth.LoginInput{Account: "linh", Password: "correct-horse"})
	require.Error(t, err)
	_, err = f.service.Login(context.Background(), auth.LoginInput{Account: "linh", Password: "battery-staple"})
	require.NoError(t, err)
	assert.Empty(t, f.reset.values, "used token must be deleted")

	// Unknown email reports success without issuing a token (anti-enumeration)
	silent, err := f.service.RequestPasswordReset(context.Background(), "ghost@anngon.vn")
	require.NoError(t, err)
	assert.Empty(t, silent)
}

/*
TestVerifyEmail flips the verified flag exactly once per token.
*/
func TestVerifyEmail(t *testing.T) {
	f := newFixture()
	user, err := f.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	var token string
	for stored := range f.verify.values {
		token = stored
	}
	require.NotEmpty(t, token)

	require.NoError(t, f.service.VerifyEmail(context.Background(), token))
	assert.True(t, f.users.users[user.ID].IsVerified)

	// The consumed token is gone
	err = f.service.VerifyEmail(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
