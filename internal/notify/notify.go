// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notify collects user-visible notifications: approval failures,
// rollback warnings, publish results. The Center keeps a bounded in-memory
// feed for the API and fans events out to optional sinks (Slack).
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is one user-visible event.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Sink receives every notification pushed through the Center. Delivery
// runs on its own goroutine, so a slow sink never stalls the caller.
type Sink interface {
	Send(n Notification)
}

// Center is a bounded notification feed. When full, the oldest entries are
// dropped. Safe for concurrent use.
type Center struct {
	mu       sync.Mutex
	items    []Notification
	capacity int
	sinks    []Sink
}

// NewCenter creates a feed holding at most capacity entries.
func NewCenter(capacity int, sinks ...Sink) *Center {
	if capacity <= 0 {
		capacity = 100
	}
	return &Center{capacity: capacity, sinks: sinks}
}

// Notify records a notification and fans it out to the sinks.
func (c *Center) Notify(level, message string) {
	n := Notification{Level: Level(level), Message: message, At: time.Now().UTC()}

	c.mu.Lock()
	c.items = append(c.items, n)
	if len(c.items) > c.capacity {
		c.items = c.items[len(c.items)-c.capacity:]
	}
	sinks := c.sinks
	c.mu.Unlock()

	slog.Log(context.Background(), slogLevel(n.Level), "notification", "message", message)

	for _, sink := range sinks {
		go sink.Send(n)
	}
}

// Recent returns up to n notifications, newest first.
func (c *Center) Recent(n int) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n <= 0 || n > len(c.items) {
		n = len(c.items)
	}
	out := make([]Notification, n)
	for i := 0; i < n; i++ {
		out[i] = c.items[len(c.items)-1-i]
	}
	return out
}

func slogLevel(l Level) slog.Level {
	switch l {
	case LevelError:
		return slog.LevelError
	case LevelWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
