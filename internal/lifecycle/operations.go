// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package lifecycle

import (
	"context"
	"fmt"
	"time"

	"postdeck/internal/identity"
	"postdeck/internal/models"
	"postdeck/internal/poststore"
)

// ApprovePost persists a pending draft and promotes it to approved. The
// server assigns the durable ID, which replaces the local draft ID; if the
// server returns no ID the local one stays. On any save failure the post
// stays pending and present in the pending view.
func (s *Store) ApprovePost(ctx context.Context, id string) (*models.Post, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	s.mu.RLock()
	post := s.find(id)
	if post == nil {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !models.CanTransition(post.Status, models.StatusApproved) {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s -> approved", ErrInvalidTransition, post.Status)
	}
	req := poststore.SaveRequest{
		UserID:       s.identity.UserID(ctx),
		Description:  post.Content,
		ImageURL:     post.ImageURL,
		ScheduleTime: post.ScheduledFor,
		Tags:         post.Tags,
	}
	s.mu.RUnlock()

	saved, err := s.remote.Save(ctx, req)
	if err != nil {
		s.notifier.Notify("error", "Couldn't save the approved post, it stays in your pending pile.")
		return nil, fmt.Errorf("approve post: %w", err)
	}

	s.mu.Lock()
	if saved.ID != "" {
		post.ID = saved.ID
	}
	post.Status = models.StatusApproved
	if !saved.CreatedAt.IsZero() {
		post.CreatedAt = saved.CreatedAt
	}
	result := post.Clone()
	s.mu.Unlock()

	return result, nil
}

// RejectPost discards a pending draft locally. Rejected posts never reach
// the server, so this cannot fail once the post is found.
func (s *Store) RejectPost(id string) (*models.Post, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	post := s.find(id)
	if post == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !models.CanTransition(post.Status, models.StatusRejected) {
		return nil, fmt.Errorf("%w: %s -> rejected", ErrInvalidTransition, post.Status)
	}

	post.Status = models.StatusRejected
	return post.Clone(), nil
}

// UpdateRequest is a partial post edit; nil fields are left untouched.
// Tags replaces the whole tag set; hashtags written in the content are
// always folded back in.
type UpdateRequest struct {
	Content      *string
	Tags         *[]string
	ImageURL     *string
	ScheduledFor *time.Time
}

// UpdatePost applies a partial edit. For server-persisted posts the edit is
// optimistic: applied locally, confirmed remotely, rolled back to the
// pre-edit state if the remote update fails.
func (s *Store) UpdatePost(ctx context.Context, id string, req UpdateRequest) (*models.Post, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	s.mu.RLock()
	post := s.find(id)
	if post == nil {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	persisted := post.Status.Persisted()
	content, existing := post.Content, post.Tags
	s.mu.RUnlock()

	if req.Content != nil {
		content = *req.Content
	}
	// A new tag set replaces the old one; a content edit alone re-derives
	// against the existing set. Either way the in-text hashtags survive.
	var tags *[]string
	switch {
	case req.Tags != nil:
		merged := models.MergeTags(content, *req.Tags)
		tags = &merged
	case req.Content != nil:
		merged := models.MergeTags(content, existing)
		tags = &merged
	}

	op := optimistic{
		apply: func(p *models.Post) {
			if req.Content != nil {
				p.Content = *req.Content
				p.Subject = models.DeriveSubject(p.Content, 80)
			}
			if tags != nil {
				p.Tags = *tags
			}
			if req.ImageURL != nil {
				p.ImageURL = *req.ImageURL
			}
			if req.ScheduledFor != nil {
				t := *req.ScheduledFor
				p.ScheduledFor = &t
			}
		},
	}
	if persisted {
		op.call = func(ctx context.Context) (*poststore.ServerPost, error) {
			return s.remote.Update(ctx, id, s.identity.UserID(ctx), poststore.UpdatePatch{
				Description:  req.Content,
				Tags:         tags,
				ImageURL:     req.ImageURL,
				ScheduleTime: req.ScheduledFor,
			})
		}
		op.reconcile = func(p *models.Post, record *poststore.ServerPost) {
			if record.ID != "" {
				p.ID = record.ID
			}
		}
	}

	if err := s.runOptimistic(ctx, post, op); err != nil {
		s.notifier.Notify("error", "Couldn't update the post, your changes were reverted.")
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.mu.RLock()
	result := post.Clone()
	s.mu.RUnlock()
	return result, nil
}

// DeletePost removes a post. Deletion is NOT optimistic: persisted posts
// are removed locally only after the remote delete confirms, so a failing
// store never loses a post the server still has.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	s.mu.RLock()
	post := s.find(id)
	if post == nil {
		s.mu.RUnlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	persisted := post.Status.Persisted()
	s.mu.RUnlock()

	if persisted {
		if err := s.remote.Delete(ctx, id, s.identity.UserID(ctx)); err != nil {
			s.notifier.Notify("error", "Couldn't delete the post, it is still in your list.")
			return fmt.Errorf("delete post: %w", err)
		}
	}

	s.mu.Lock()
	s.remove(id)
	s.mu.Unlock()
	return nil
}

// SchedulePost sets the post's schedule time, optimistically for persisted
// posts. The store does not validate that when is in the future; entry
// points do that before calling here.
func (s *Store) SchedulePost(ctx context.Context, id string, when time.Time) (*models.Post, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	s.mu.RLock()
	post := s.find(id)
	if post == nil {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	persisted := post.Status.Persisted()
	s.mu.RUnlock()

	op := optimistic{
		apply: func(p *models.Post) {
			t := when
			p.ScheduledFor = &t
		},
	}
	if persisted {
		op.call = func(ctx context.Context) (*poststore.ServerPost, error) {
			return s.remote.Update(ctx, id, s.identity.UserID(ctx), poststore.UpdatePatch{
				ScheduleTime: &when,
			})
		}
	}

	if err := s.runOptimistic(ctx, post, op); err != nil {
		s.notifier.Notify("error", "Couldn't schedule the post, the previous schedule is back in place.")
		return nil, fmt.Errorf("schedule post: %w", err)
	}

	s.mu.RLock()
	result := post.Clone()
	s.mu.RUnlock()
	return result, nil
}

// RemoveSchedule clears the post's schedule time, with the same optimistic
// rollback symmetry as SchedulePost.
func (s *Store) RemoveSchedule(ctx context.Context, id string) (*models.Post, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	s.mu.RLock()
	post := s.find(id)
	if post == nil {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	persisted := post.Status.Persisted()
	s.mu.RUnlock()

	op := optimistic{
		apply: func(p *models.Post) { p.ScheduledFor = nil },
	}
	if persisted {
		op.call = func(ctx context.Context) (*poststore.ServerPost, error) {
			return s.remote.RemoveSchedule(ctx, id, s.identity.UserID(ctx))
		}
	}

	if err := s.runOptimistic(ctx, post, op); err != nil {
		s.notifier.Notify("error", "Couldn't clear the schedule, it was restored.")
		return nil, fmt.Errorf("remove schedule: %w", err)
	}

	s.mu.RLock()
	result := post.Clone()
	s.mu.RUnlock()
	return result, nil
}

// PublishPost sends an approved post to the network. Publishing is not
// optimistic: the status flips to published only after the network
// confirms. publishedAt is set exactly once, and the schedule is cleared
// since a post is either scheduled or published.
func (s *Store) PublishPost(ctx context.Context, id string) (*models.Post, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	s.mu.RLock()
	post := s.find(id)
	if post == nil {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !models.CanTransition(post.Status, models.StatusPublished) {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s -> published", ErrInvalidTransition, post.Status)
	}
	content, imageURL := post.Content, post.ImageURL
	s.mu.RUnlock()

	if err := s.network.Publish(ctx, content, imageURL, id); err != nil {
		s.notifier.Notify("error", "Publishing failed, the post stays approved.")
		return nil, fmt.Errorf("publish post: %w", err)
	}

	now := time.Now().UTC()
	s.mu.Lock()
	post.Status = models.StatusPublished
	post.PublishedAt = &now
	post.ScheduledFor = nil
	result := post.Clone()
	s.mu.Unlock()

	// Best effort: record the publish timestamp server-side. The post is
	// already out on the network, so a store failure is only a warning.
	if _, err := s.remote.Update(ctx, id, s.identity.UserID(ctx), poststore.UpdatePatch{
		PublishedAt: &now,
	}); err != nil {
		s.notifier.Notify("warning", "Post published, but the publish time couldn't be stored.")
	}

	s.notifier.Notify("info", "Post published.")
	return result, nil
}

// LoadUserPosts replaces the whole collection with the server's records.
// Pending and rejected drafts are client-only and do not survive a reload.
// Anonymous sessions skip the sync entirely.
func (s *Store) LoadUserPosts(ctx context.Context) error {
	userID := s.identity.UserID(ctx)
	if userID == identity.AnonymousID {
		return nil
	}

	records, err := s.remote.List(ctx, userID)
	if err != nil {
		s.notifier.Notify("error", "Couldn't load your posts from the server.")
		return fmt.Errorf("load user posts: %w", err)
	}

	posts := make([]*models.Post, 0, len(records))
	for _, rec := range records {
		post := &models.Post{
			ID:        rec.ID,
			Content:   rec.Description,
			Subject:   models.DeriveSubject(rec.Description, 80),
			Tags:      rec.Tags,
			ImageURL:  rec.ImageURL,
			CreatedAt: rec.CreatedAt,
		}
		if rec.PublishedAt != nil {
			// A published post is never also scheduled.
			post.Status = models.StatusPublished
			post.PublishedAt = rec.PublishedAt
		} else {
			post.Status = models.StatusApproved
			post.ScheduledFor = rec.ScheduleTime
		}
		posts = append(posts, post)
	}

	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
	return nil
}
