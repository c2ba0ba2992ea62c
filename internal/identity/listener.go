// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package identity

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// authChannel carries auth events from the network integration:
// "login:<user-id>" and "logout".
const authChannel = "identity:auth"

// Listener subscribes to auth events and keeps the Provider in step with
// the session. Its lifetime is explicit: Start subscribes, Stop tears the
// subscription down and waits for the loop to exit.
type Listener struct {
	client   *redis.Client
	provider *Provider

	mu     sync.Mutex
	pubsub *redis.PubSub
	done   chan struct{}
}

func NewListener(client *redis.Client, provider *Provider) *Listener {
	return &Listener{client: client, provider: provider}
}

// Start subscribes to the auth channel and processes events until Stop is
// called. Calling Start twice without Stop is a no-op.
func (l *Listener) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pubsub != nil {
		return
	}

	l.pubsub = l.client.Subscribe(ctx, authChannel)
	l.done = make(chan struct{})

	go l.loop(l.pubsub, l.done)
	slog.Info("identity listener started", "channel", authChannel)
}

// Stop unsubscribes and waits for the event loop to drain.
func (l *Listener) Stop() {
	l.mu.Lock()
	pubsub, done := l.pubsub, l.done
	l.pubsub, l.done = nil, nil
	l.mu.Unlock()

	if pubsub == nil {
		return
	}
	pubsub.Close()
	<-done
	slog.Info("identity listener stopped")
}

func (l *Listener) loop(pubsub *redis.PubSub, done chan struct{}) {
	defer close(done)

	for msg := range pubsub.Channel() {
		l.handle(msg.Payload)
	}
}

func (l *Listener) handle(payload string) {
	ctx := context.Background()

	switch {
	case strings.HasPrefix(payload, "login:"):
		id := strings.TrimPrefix(payload, "login:")
		if id == "" {
			slog.Warn("identity listener: login event without user id")
			return
		}
		if err := l.provider.SetUserID(ctx, id); err != nil {
			slog.Error("identity listener: set user id", "error", err)
		}
	case payload == "logout":
		if err := l.provider.Clear(ctx); err != nil {
			slog.Error("identity listener: clear identity", "error", err)
		}
	default:
		slog.Warn("identity listener: unknown event", "payload", payload)
	}
}
