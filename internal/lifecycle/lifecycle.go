// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package lifecycle owns the in-memory post collection and every status
// transition on it. Posts move along pending→approved→published (or
// pending→rejected) only; approving swaps the local draft ID for the
// server-assigned one. Mutations that touch the remote store are applied
// optimistically and rolled back to a snapshot when the remote call fails.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"postdeck/internal/identity"
	"postdeck/internal/models"
	"postdeck/internal/poststore"
)

var (
	ErrNotFound          = errors.New("lifecycle: post not found")
	ErrInvalidTransition = errors.New("lifecycle: invalid status transition")
)

// Network publishes to the linked social account. Scheduling lives in the
// post store, not here: a scheduled post is persisted with its schedule
// time and picked up server-side.
type Network interface {
	Publish(ctx context.Context, content, imageURL, postID string) error
}

// ImageGenerator produces a hosted image URL from a concept prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt, userID string) (string, error)
}

// Notifier surfaces user-visible events. Collaborator failures are always
// reported here and never panic.
type Notifier interface {
	Notify(level, message string)
}

type noopNotifier struct{}

func (noopNotifier) Notify(level, message string) {}

// Store is the post lifecycle store. The collection mutex guards the slice
// and every post it holds; a per-ID lock map serializes operations on the
// same post so interleaved remote calls cannot cross their rollbacks.
type Store struct {
	mu    sync.RWMutex
	posts []*models.Post
	locks lockMap

	remote   poststore.Store
	network  Network
	imageGen ImageGenerator // nil disables generation (placeholder only)
	identity identity.Source
	notifier Notifier
}

// New creates a lifecycle store. remote, network and ident must be non-nil;
// imageGen and notifier may be nil.
func New(remote poststore.Store, network Network, imageGen ImageGenerator, ident identity.Source, notifier Notifier) *Store {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Store{
		remote:   remote,
		network:  network,
		imageGen: imageGen,
		identity: ident,
		notifier: notifier,
	}
}

// AddPosts appends freshly generated pending drafts. Pure local mutation,
// never fails. Posts with a non-pending status are normalized to pending.
func (s *Store) AddPosts(posts []*models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range posts {
		if p == nil {
			continue
		}
		clone := p.Clone()
		clone.Status = models.StatusPending
		s.posts = append(s.posts, clone)
	}
}

// Get returns a copy of the post, or ErrNotFound.
func (s *Store) Get(id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post := s.find(id)
	if post == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return post.Clone(), nil
}

// All returns copies of every post in insertion order.
func (s *Store) All() []*models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p.Clone())
	}
	return out
}

// Pending returns the pending drafts awaiting a swipe decision.
func (s *Store) Pending() []*models.Post { return s.byStatus(models.StatusPending) }

// Approved returns the server-persisted, not-yet-published posts.
func (s *Store) Approved() []*models.Post { return s.byStatus(models.StatusApproved) }

// Rejected returns the locally discarded drafts.
func (s *Store) Rejected() []*models.Post { return s.byStatus(models.StatusRejected) }

// Published returns the posts that went out to the network.
func (s *Store) Published() []*models.Post { return s.byStatus(models.StatusPublished) }

func (s *Store) byStatus(status models.PostStatus) []*models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Post
	for _, p := range s.posts {
		if p.Status == status {
			out = append(out, p.Clone())
		}
	}
	return out
}

// find returns the live post pointer. Callers must hold s.mu.
func (s *Store) find(id string) *models.Post {
	for _, p := range s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// remove drops the post from the collection. Callers must hold s.mu.
func (s *Store) remove(id string) bool {
	for i, p := range s.posts {
		if p.ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return true
		}
	}
	return false
}
