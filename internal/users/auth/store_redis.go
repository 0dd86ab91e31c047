// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tatami-reader/tatami/internal/platform/apperr"
	"github.com/tatami-reader/tatami/internal/platform/constants"
)

// # Session Repository

// RedisSessionRepository implements [SessionRepository] on Redis.
//
// Each session lives as JSON under the token hash with the session TTL, so
// expiry needs no sweeper. A per-user set of token hashes backs RevokeOthers;
// the set carries the same TTL and tolerates stale members, since revocation
// of an already-expired hash is a no-op.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewSessionRepository constructs a Redis backed session store.
func NewSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(tokenHash string) string {
	return constants.RedisPrefixSession + tokenHash
}

func userSessionsKey(userID string) string {
	return constants.RedisPrefixUserSessions + userID
}

// Create stores the session under its token hash and indexes it per user.
func (repository *RedisSessionRepository) Create(context context.Context, tokenHash string, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return apperr.ValidationError("Session already expired")
	}

	pipe := repository.client.TxPipeline()
	pipe.Set(context, sessionKey(tokenHash), payload, ttl)
	pipe.SAdd(context, userSessionsKey(session.UserID), tokenHash)
	pipe.Expire(context, userSessionsKey(session.UserID), ttl)
	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}

	return nil
}

// FindByTokenHash resolves a live session or reports NotFound.
func (repository *RedisSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	payload, err := repository.client.Get(context, sessionKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}

	return session, nil
}

// Revoke deletes one session. Revoking an absent hash succeeds.
func (repository *RedisSessionRepository) Revoke(context context.Context, tokenHash string) error {
	if err := repository.client.Del(context, sessionKey(tokenHash)).Err(); err != nil {
		return fmt.Errorf("redis_session_revoke_failed: %w", err)
	}

	return nil
}

// RevokeOthers deletes every session of the user except keepTokenHash. An
// empty keepTokenHash revokes them all.
func (repository *RedisSessionRepository) RevokeOthers(context context.Context, userID, keepTokenHash string) error {
	hashes, err := repository.client.SMembers(context, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis_session_list_failed: %w", err)
	}

	pipe := repository.client.TxPipeline()
	for _, hash := range hashes {
		if hash == keepTokenHash {
			continue
		}
		pipe.Del(context, sessionKey(hash))
		pipe.SRem(context, userSessionsKey(userID), hash)
	}
	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_session_revoke_others_failed: %w", err)
	}

	return nil
}

// # Reset Token Repository

// RedisResetTokenRepository implements [ResetTokenRepository] on Redis.
type RedisResetTokenRepository struct {
	client *redis.Client
}

// NewResetTokenRepository constructs a Redis backed reset token store.
func NewResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

// Set stores the token with its owning user for the recovery window.
func (repository *RedisResetTokenRepository) Set(context context.Context, token, userID string, ttl time.Duration) error {
	key := constants.RedisPrefixResetToken + token

	if err := repository.client.Set(context, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_set_failed: %w", err)
	}

	return nil
}

// Get resolves the token's user, or NotFound once the window has lapsed.
func (repository *RedisResetTokenRepository) Get(context context.Context, token string) (string, error) {
	key := constants.RedisPrefixResetToken + token

	userID, err := repository.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Reset token is invalid or expired")
		}
		return "", fmt.Errorf("redis_reset_token_get_failed: %w", err)
	}

	return userID, nil
}

// Delete consumes the token after a successful reset.
func (repository *RedisResetTokenRepository) Delete(context context.Context, token string) error {
	key := constants.RedisPrefixResetToken + token

	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_delete_failed: %w", err)
	}

	return nil
}
