// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
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
		keys, _ := client.Keys(ctx, "preview:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
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

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Errorf("ping after connect: %v", err)
	}
}

func TestKeyStableAndDistinct(t *testing.T) {
	if Key("body") != Key("body") {
		t.Error("same body must hash to the same key")
	}
	if Key("body a") == Key("body b") {
		t.Error("different bodies must hash to different keys")
	}
}

func TestPreviewCacheRoundTrip(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPreviewCache(client, time.Minute)
	ctx := context.Background()

	key := Key("hello #world")

	if _, ok := pc.Get(ctx, key); ok {
		t.Fatal("unexpected hit before Set")
	}

	pc.Set(ctx, key, "<p>hello</p>")

	html, ok := pc.Get(ctx, key)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if html != "<p>hello</p>" {
		t.Errorf("cached html = %q", html)
	}
}

func TestPreviewCacheTTL(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPreviewCache(client, 100*time.Millisecond)
	ctx := context.Background()

	key := Key("short lived")
	pc.Set(ctx, key, "<p>x</p>")
	time.Sleep(200 * time.Millisecond)

	if _, ok := pc.Get(ctx, key); ok {
		t.Error("entry should have expired")
	}
}
