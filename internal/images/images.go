// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package images turns an image concept into a hosted URL: the AI provider
// renders the bytes, libvips recompresses them, object storage serves them.
package images

import (
	"context"
	"fmt"
	"log/slog"
	"mime"

	"github.com/google/uuid"

	"postdeck/internal/ai"
	"postdeck/internal/imaging"
	"postdeck/internal/storage"
)

// Service generates post images and hosts them on object storage.
type Service struct {
	registry *ai.Registry
	store    *storage.Client // nil when image hosting is unconfigured
	optimize bool
}

func NewService(registry *ai.Registry, store *storage.Client) *Service {
	return &Service{registry: registry, store: store, optimize: true}
}

// GenerateImage renders the prompt with the active provider and uploads the
// result under the user's prefix, returning the public URL. Provider output
// is recompressed to WebP; if that fails, the original bytes go up as-is.
func (s *Service) GenerateImage(ctx context.Context, prompt, userID string) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("images: no object storage configured")
	}

	data, contentType, err := s.registry.GenerateImage(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("images: generate: %w", err)
	}

	if s.optimize {
		if opt, err := imaging.Optimize(data); err != nil {
			slog.Warn("image optimize failed, uploading original", "error", err)
		} else {
			data, contentType = opt.Data, opt.ContentType
		}
	}

	key := fmt.Sprintf("posts/%s/%s%s", userID, uuid.NewString(), extensionFor(contentType))
	url, err := s.store.Upload(ctx, key, contentType, data)
	if err != nil {
		return "", fmt.Errorf("images: upload: %w", err)
	}

	slog.Info("post image generated", "key", key, "bytes", len(data))
	return url, nil
}

// extensionFor maps a MIME type to a file extension, defaulting to .png.
func extensionFor(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ".png"
	}
	// Prefer the conventional extension when the table offers several.
	for _, ext := range exts {
		if ext == ".png" || ext == ".jpg" || ext == ".webp" {
			return ext
		}
	}
	return exts[0]
}
