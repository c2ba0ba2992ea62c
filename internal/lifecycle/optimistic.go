// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package lifecycle

import (
	"context"

	"postdeck/internal/models"
	"postdeck/internal/poststore"
)

// optimistic is one apply→call→rollback cycle: apply mutates the post
// locally, call runs the remote confirmation, reconcile folds the server's
// canonical record back in. A failing call restores the pre-apply snapshot,
// so the caller observes either the confirmed mutation or the original
// post, never a half-state.
type optimistic struct {
	apply     func(p *models.Post)
	call      func(ctx context.Context) (*poststore.ServerPost, error)
	reconcile func(p *models.Post, record *poststore.ServerPost)
}

// runOptimistic executes the cycle on a live post pointer. The caller must
// hold the post's ID lock; the collection mutex is taken here around each
// state change.
func (s *Store) runOptimistic(ctx context.Context, post *models.Post, op optimistic) error {
	s.mu.Lock()
	snapshot := post.Clone()
	op.apply(post)
	s.mu.Unlock()

	if op.call == nil {
		return nil
	}

	record, err := op.call(ctx)
	if err != nil {
		s.mu.Lock()
		*post = *snapshot
		s.mu.Unlock()
		return err
	}

	if op.reconcile != nil && record != nil {
		s.mu.Lock()
		op.reconcile(post, record)
		s.mu.Unlock()
	}
	return nil
}
