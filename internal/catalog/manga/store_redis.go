// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package manga

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/tatami-reader/tatami/internal/platform/constants"
)

// RedisFeaturedCache implements [FeaturedCache] using Redis.
//
// The featured shelf is recomputed from view counters on every miss, so the
// cached value is allowed to be a few minutes stale (see
// [constants.FeaturedMangaTTL]).
type RedisFeaturedCache struct {
	client *redis.Client
}

// NewRedisFeaturedCache creates a Redis-backed featured shelf cache.
func NewRedisFeaturedCache(client *redis.Client) *RedisFeaturedCache {
	return &RedisFeaturedCache{client: client}
}

// Get returns the cached shelf, or (nil, nil) on a miss.
func (cache *RedisFeaturedCache) Get(context context.Context) ([]*Manga, error) {
	payload, err := cache.client.Get(context, constants.RedisKeyFeaturedManga).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_featured_get_failed: %w", err)
	}

	var entries []*Manga
	if err := json.Unmarshal(payload, &entries); err != nil {
		// A corrupt cache entry is treated as a miss; the next Set overwrites it.
		return nil, nil
	}

	return entries, nil
}

// Set stores the shelf with the standard TTL.
func (cache *RedisFeaturedCache) Set(context context.Context, entries []*Manga) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("redis_featured_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, constants.RedisKeyFeaturedManga, payload, constants.FeaturedMangaTTL).Err(); err != nil {
		return fmt.Errorf("redis_featured_set_failed: %w", err)
	}

	return nil
}
