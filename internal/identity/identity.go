// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package identity supplies the stable user identifier that scopes every
// remote post-store call. The identifier is persisted in Valkey so it
// survives restarts; when none is stored, the anonymous sentinel is used
// and server sync is skipped entirely.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// AnonymousID is the sentinel meaning "no real user — skip server sync".
const AnonymousID = "anonymous"

const userIDKey = "identity:user_id"

// Source yields the current user identifier. Implementations must return
// AnonymousID rather than failing when no identity is available.
type Source interface {
	UserID(ctx context.Context) string
}

// Provider is the Valkey-backed identity source. The identifier is cached
// in memory after the first read; SetUserID and Clear keep the cache and
// the store in step.
type Provider struct {
	client *redis.Client

	mu     sync.RWMutex
	cached string
	loaded bool
}

func NewProvider(client *redis.Client) *Provider {
	return &Provider{client: client}
}

// UserID returns the stored identifier, or AnonymousID when none is stored
// or the store is unreachable.
func (p *Provider) UserID(ctx context.Context) string {
	p.mu.RLock()
	if p.loaded {
		defer p.mu.RUnlock()
		return p.cached
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return p.cached
	}

	val, err := p.client.Get(ctx, userIDKey).Result()
	if err == redis.Nil {
		p.cached, p.loaded = AnonymousID, true
		return p.cached
	}
	if err != nil {
		slog.Warn("identity read failed, falling back to anonymous", "error", err)
		return AnonymousID
	}

	p.cached, p.loaded = val, true
	return p.cached
}

// SetUserID persists a new identifier and updates the in-memory cache.
func (p *Provider) SetUserID(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("identity: empty user id")
	}
	if err := p.client.Set(ctx, userIDKey, id, 0).Err(); err != nil {
		return fmt.Errorf("identity set: %w", err)
	}

	p.mu.Lock()
	p.cached, p.loaded = id, true
	p.mu.Unlock()

	slog.Info("identity updated", "user_id", id)
	return nil
}

// Clear drops the stored identifier, reverting to the anonymous sentinel.
func (p *Provider) Clear(ctx context.Context) error {
	if err := p.client.Del(ctx, userIDKey).Err(); err != nil {
		return fmt.Errorf("identity clear: %w", err)
	}

	p.mu.Lock()
	p.cached, p.loaded = AnonymousID, true
	p.mu.Unlock()

	slog.Info("identity cleared")
	return nil
}
