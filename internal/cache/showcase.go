// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// showcase.go provides a Valkey-backed cache of the public showcase
// listing. The list is read on every gallery page view but changes only
// when someone submits or votes, so serving it from Valkey skips the DB
// on the hot path.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"promptforge/internal/models"
)

const (
	// showcaseKey is the Valkey key holding the serialized listing.
	showcaseKey = "showcase:all"

	// DefaultShowcaseTTL is how long the listing stays cached.
	DefaultShowcaseTTL = 5 * time.Minute
)

// ShowcaseCache manages the cached showcase listing in Valkey.
type ShowcaseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewShowcaseCache creates a showcase cache backed by the given Valkey client.
func NewShowcaseCache(client *redis.Client, ttl time.Duration) *ShowcaseCache {
	if ttl == 0 {
		ttl = DefaultShowcaseTTL
	}
	return &ShowcaseCache{client: client, ttl: ttl}
}

// Get retrieves the cached listing. Returns false on miss or decode error.
func (sc *ShowcaseCache) Get(ctx context.Context) ([]models.ShowcaseEntry, bool) {
	val, err := sc.client.Get(ctx, showcaseKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("showcase cache get error", "error", err)
		return nil, false
	}

	var entries []models.ShowcaseEntry
	if err := json.Unmarshal(val, &entries); err != nil {
		slog.Warn("showcase cache decode error", "error", err)
		return nil, false
	}
	return entries, true
}

// Set stores the listing with the configured TTL.
func (sc *ShowcaseCache) Set(ctx context.Context, entries []models.ShowcaseEntry) {
	payload, err := json.Marshal(entries)
	if err != nil {
		slog.Warn("showcase cache encode error", "error", err)
		return
	}
	if err := sc.client.Set(ctx, showcaseKey, payload, sc.ttl).Err(); err != nil {
		slog.Warn("showcase cache set error", "error", err)
	}
}

// Invalidate drops the cached listing. Called after submissions and votes.
func (sc *ShowcaseCache) Invalidate(ctx context.Context) {
	if err := sc.client.Del(ctx, showcaseKey).Err(); err != nil {
		slog.Warn("showcase cache invalidate error", "error", err)
	}
}
