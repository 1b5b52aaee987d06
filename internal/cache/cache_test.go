// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"promptforge/internal/models"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		client.Del(ctx, showcaseKey)
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, "")
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	// Verify connection.
	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestShowcaseCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	sc := NewShowcaseCache(client, 1*time.Minute)

	ctx := context.Background()

	// Miss on empty cache.
	if _, ok := sc.Get(ctx); ok {
		t.Error("expected cache miss on empty cache")
	}

	entries := []models.ShowcaseEntry{
		{ID: uuid.New(), Name: "TaskFlow", Niche: "productivity", Platform: "lovable", Votes: 12},
		{ID: uuid.New(), Name: "FitCoach", Niche: "fitness", Platform: "bolt", Votes: 3},
	}
	sc.Set(ctx, entries)

	got, ok := sc.Get(ctx)
	if !ok {
		t.Fatal("expected cache hit after Set")
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Name != "TaskFlow" {
		t.Errorf("entry order not preserved: got %q first", got[0].Name)
	}
	if got[0].ID != entries[0].ID {
		t.Error("entry ID did not round-trip")
	}
}

func TestShowcaseCacheInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	sc := NewShowcaseCache(client, 1*time.Minute)

	ctx := context.Background()
	sc.Set(ctx, []models.ShowcaseEntry{{ID: uuid.New(), Name: "Gone"}})

	sc.Invalidate(ctx)

	if _, ok := sc.Get(ctx); ok {
		t.Error("expected miss after invalidate")
	}
}

func TestShowcaseCacheTTL(t *testing.T) {
	client := testValkeyClient(t)
	sc := NewShowcaseCache(client, 1*time.Second)

	ctx := context.Background()
	sc.Set(ctx, []models.ShowcaseEntry{{ID: uuid.New(), Name: "ShortLived"}})

	if _, ok := sc.Get(ctx); !ok {
		t.Fatal("expected hit before TTL expiry")
	}

	time.Sleep(1500 * time.Millisecond)

	if _, ok := sc.Get(ctx); ok {
		t.Error("expected miss after TTL expiry")
	}
}

func TestShowcaseCacheDefaultTTL(t *testing.T) {
	client := testValkeyClient(t)
	sc := NewShowcaseCache(client, 0)

	if sc.ttl != DefaultShowcaseTTL {
		t.Errorf("ttl: got %v, want %v", sc.ttl, DefaultShowcaseTTL)
	}
}
