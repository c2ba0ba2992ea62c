// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package poststore is the persistence boundary for approved and published
// posts. Pending and rejected drafts never reach it. Two implementations
// share the Store contract: an HTTP client for the hosted API and a
// Postgres-backed store for self-hosted deployments.
package poststore

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrRemoteUnavailable wraps network and non-2xx HTTP failures.
	ErrRemoteUnavailable = errors.New("post store unavailable")

	// ErrValidationRejected is returned when the store reached the backend
	// but the backend refused the payload.
	ErrValidationRejected = errors.New("post rejected by store validation")

	// ErrNotFound is returned when the referenced post does not exist for
	// the given user.
	ErrNotFound = errors.New("post not found")
)

// ServerPost is the validated record shape the store persists and returns.
// IDs are always server-assigned; callers swap their local draft ID for
// this one after a successful save.
type ServerPost struct {
	ID           string     `json:"id"`
	Description  string     `json:"description"`
	ImageURL     string     `json:"image_url,omitempty"`
	ScheduleTime *time.Time `json:"schedule_time,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	Tags         []string   `json:"tags,omitempty"`
}

// SaveRequest carries the fields persisted when a draft is approved.
type SaveRequest struct {
	UserID       string     `json:"user_id"`
	Description  string     `json:"description"`
	ImageURL     string     `json:"image_url,omitempty"`
	ScheduleTime *time.Time `json:"schedule_time,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
}

// UpdatePatch is a partial update; nil fields are left untouched. A non-nil
// Tags replaces the stored tag set.
type UpdatePatch struct {
	Description  *string    `json:"description,omitempty"`
	Tags         *[]string  `json:"tags,omitempty"`
	ImageURL     *string    `json:"image_url,omitempty"`
	ScheduleTime *time.Time `json:"schedule_time,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

// Store is the persistence contract consumed by the lifecycle store.
type Store interface {
	// Save persists a new post and returns it with a server-assigned ID.
	Save(ctx context.Context, req SaveRequest) (*ServerPost, error)

	// List returns all of the user's persisted posts, newest first.
	List(ctx context.Context, userID string) ([]ServerPost, error)

	// Update applies a partial update and returns the updated record.
	Update(ctx context.Context, id, userID string, patch UpdatePatch) (*ServerPost, error)

	// Delete removes the post. The lifecycle store only drops its local
	// copy after Delete returns nil.
	Delete(ctx context.Context, id, userID string) error

	// RemoveSchedule clears the schedule time and returns the updated record.
	RemoveSchedule(ctx context.Context, id, userID string) (*ServerPost, error)
}
