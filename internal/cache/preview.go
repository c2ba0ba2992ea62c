// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// preview.go provides a Valkey-backed cache for rendered post previews.
// Rendering a body is cheap but the preview endpoint is hit on every swipe,
// so results are keyed by a content hash and reused until the body changes.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// previewKeyPrefix is the Valkey key prefix for cached previews.
	previewKeyPrefix = "preview:"

	// DefaultPreviewTTL is how long a rendered preview stays cached.
	DefaultPreviewTTL = 10 * time.Minute
)

// PreviewCache stores rendered preview HTML keyed by body hash.
type PreviewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPreviewCache creates a preview cache backed by the given Valkey client.
func NewPreviewCache(client *redis.Client, ttl time.Duration) *PreviewCache {
	if ttl == 0 {
		ttl = DefaultPreviewTTL
	}
	return &PreviewCache{client: client, ttl: ttl}
}

// Key derives the cache key for a post body.
func Key(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:16])
}

// Get retrieves cached HTML for a body key. Returns ("", false) on miss.
func (pc *PreviewCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := pc.client.Get(ctx, previewKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		slog.Warn("preview cache get error", "key", key, "error", err)
		return "", false
	}
	return val, true
}

// Set stores rendered HTML for a body key with the configured TTL.
func (pc *PreviewCache) Set(ctx context.Context, key, html string) {
	if err := pc.client.Set(ctx, previewKeyPrefix+key, html, pc.ttl).Err(); err != nil {
		slog.Warn("preview cache set error", "key", key, "error", err)
	}
}
