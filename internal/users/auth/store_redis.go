// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/anngon/internal/platform/apperr"
	"github.com/taibuivan/anngon/internal/platform/constants"
)

// # Volatile Token Repository

// RedisTokenRepository implements VolatileTokenRepository using Redis.
//
// One implementation serves every single-use token flow. The key prefix keeps
// the namespaces disjoint, so a password-reset token can never be replayed as
// an email-verification token.
type RedisTokenRepository struct {
	client *redis.Client
	prefix string
}

// NewResetTokenRepository creates the Redis-backed store for password reset tokens.
func NewResetTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{client: client, prefix: constants.RedisPrefixResetToken}
}

// NewVerificationTokenRepository creates the Redis-backed store for email verification tokens.
func NewVerificationTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{client: client, prefix: constants.RedisPrefixVerifyToken}
}

// NewOAuthStateRepository creates the Redis-backed store for OAuth anti-CSRF state nonces.
func NewOAuthStateRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{client: client, prefix: constants.RedisPrefixOAuthState}
}

/*
Set stores a token with its associated value and TTL.

Parameters:
  - context: context.Context
  - token: string
  - value: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisTokenRepository) Set(context context.Context, token string, value string, ttl time.Duration) error {

	// Namespace the key under the flow-specific prefix
	key := repository.prefix + token

	// Set the token with TTL
	if err := repository.client.Set(context, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis_token_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
Get retrieves the value for a given token.

Description: Returns apperr.NotFound if the token is absent or expired.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - string: Stored value
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisTokenRepository) Get(context context.Context, token string) (string, error) {

	// Namespace the key under the flow-specific prefix
	key := repository.prefix + token

	// Get the token from Redis
	value, err := repository.client.Get(context, key).Result()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Token is invalid or expired")
		}
		return "", fmt.Errorf("redis_token_get_failed: %w", err)
	}

	// Return the stored value
	return value, nil
}

/*
Delete removes the token from Redis.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisTokenRepository) Delete(context context.Context, token string) error {

	// Namespace the key under the flow-specific prefix
	key := repository.prefix + token

	// Delete the token from Redis
	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_token_delete_failed: %w", err)
	}

	// Return nil on success
	return nil
}
