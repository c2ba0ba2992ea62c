// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"postdeck/internal/generate"
	"postdeck/internal/models"
	"postdeck/internal/poststore"
)

// PlaceholderImageURL is attached when image generation fails, so a post
// that asked for an image always ends up with a usable URL.
const PlaceholderImageURL = "https://placehold.co/1024x1024/png?text=postdeck"

// GenerateImagePrompts fills the post's candidate image concepts. The
// operation is idempotent: once set, the same list is returned and nothing
// is regenerated.
func (s *Store) GenerateImagePrompts(id string) ([]string, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	post := s.find(id)
	if post == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if len(post.ImagePrompts) > 0 {
		return append([]string(nil), post.ImagePrompts...), nil
	}

	post.ImagePrompts = generate.ImageConcepts(post)
	return append([]string(nil), post.ImagePrompts...), nil
}

// SelectImagePrompt records the concept the user picked, which may be a
// custom one outside the generated candidates.
func (s *Store) SelectImagePrompt(id, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("lifecycle: empty image prompt")
	}

	unlock := s.locks.lock(id)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	post := s.find(id)
	if post == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	post.SelectedImagePrompt = prompt
	return nil
}

// GenerateImage renders an image for the post and attaches its URL. The
// contract guarantees a non-empty URL: when the generator fails (or none is
// configured) the placeholder is attached instead and a warning surfaced,
// but no error is returned.
func (s *Store) GenerateImage(ctx context.Context, id, prompt string) (string, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	s.mu.RLock()
	post := s.find(id)
	if post == nil {
		s.mu.RUnlock()
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if prompt == "" {
		prompt = post.SelectedImagePrompt
	}
	if prompt == "" && len(post.ImagePrompts) > 0 {
		prompt = post.ImagePrompts[0]
	}
	persisted := post.Status.Persisted()
	s.mu.RUnlock()

	url := PlaceholderImageURL
	if s.imageGen == nil {
		s.notifier.Notify("warning", "Image generation is not configured, a placeholder was attached.")
	} else {
		generated, err := s.imageGen.GenerateImage(ctx, prompt, s.identity.UserID(ctx))
		if err != nil || generated == "" {
			s.notifier.Notify("warning", "Image generation failed, a placeholder was attached.")
		} else {
			url = generated
		}
	}

	s.mu.Lock()
	post.ImageURL = url
	if post.SelectedImagePrompt == "" {
		post.SelectedImagePrompt = prompt
	}
	s.mu.Unlock()

	// Persist the new URL for server-backed posts. The image is already
	// attached locally, so a store failure only warns.
	if persisted {
		if _, err := s.remote.Update(ctx, id, s.identity.UserID(ctx), poststore.UpdatePatch{
			ImageURL: &url,
		}); err != nil {
			s.notifier.Notify("warning", "The new image couldn't be stored on the server.")
		}
	}

	return url, nil
}

// UpdatePostImage attaches an already-hosted image URL directly, bypassing
// generation. Used when a sibling flow (custom prompt entry) produced the
// image itself.
func (s *Store) UpdatePostImage(ctx context.Context, id, imageURL string) (*models.Post, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, fmt.Errorf("lifecycle: empty image url")
	}
	return s.UpdatePost(ctx, id, UpdateRequest{ImageURL: &imageURL})
}
