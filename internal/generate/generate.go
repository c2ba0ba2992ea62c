// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generate turns a drafting request into a batch of pending posts.
// The LLM is asked for N variations in one round trip; the response is split
// on ===VARIATION n=== markers so a single completion yields the whole batch.
package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"postdeck/internal/ai"
	"postdeck/internal/models"
)

const (
	defaultCount = 3
	maxCount     = 5

	systemPrompt = `You are a social media ghostwriter drafting short posts.

Rules:
- Sound natural and conversational, never corporate or salesy.
- Open with a hook, use short paragraphs, end with a question or takeaway.
- Stay between 80 and 250 words.
- Include 2-4 relevant #hashtags inline in the body.
- Use emojis sparingly (at most one).`
)

// Request describes one drafting round.
type Request struct {
	Topic string   `json:"topic"`
	Tone  string   `json:"tone,omitempty"`
	Style string   `json:"style,omitempty"`
	Count int      `json:"count,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// Service drafts posts through the AI provider registry.
type Service struct {
	registry *ai.Registry
}

func NewService(registry *ai.Registry) *Service {
	return &Service{registry: registry}
}

// Drafts asks the active provider for req.Count post variations and returns
// them as pending posts with fresh local IDs. The topic is screened through
// moderation first; a flagged topic aborts the round before any generation.
func (s *Service) Drafts(ctx context.Context, req Request) ([]*models.Post, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, fmt.Errorf("generate: empty topic")
	}

	count := req.Count
	if count <= 0 {
		count = defaultCount
	}
	if count > maxCount {
		count = maxCount
	}

	check, err := s.registry.CheckPrompt(ctx, req.Topic)
	if err != nil {
		return nil, fmt.Errorf("generate: moderation check: %w", err)
	}
	if !check.Safe {
		return nil, fmt.Errorf("generate: topic rejected by moderation (%s)", strings.Join(check.Categories, ", "))
	}

	raw, err := s.registry.Generate(ctx, systemPrompt, userPrompt(req, count))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	variations := parseVariations(raw)
	if len(variations) == 0 {
		return nil, fmt.Errorf("generate: no variations in provider response")
	}
	if len(variations) > count {
		variations = variations[:count]
	}

	now := time.Now().UTC()
	posts := make([]*models.Post, 0, len(variations))
	for _, content := range variations {
		posts = append(posts, &models.Post{
			ID:        uuid.NewString(),
			Content:   content,
			Subject:   models.DeriveSubject(content, 80),
			Tags:      models.MergeTags(content, req.Tags),
			Status:    models.StatusPending,
			Tone:      req.Tone,
			Style:     req.Style,
			CreatedAt: now,
		})
	}
	return posts, nil
}

// userPrompt renders the drafting instructions for one request.
func userPrompt(req Request, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d different post variations about: %s\n", count, req.Topic)
	if req.Tone != "" {
		fmt.Fprintf(&b, "Tone: %s\n", req.Tone)
	}
	if req.Style != "" {
		fmt.Fprintf(&b, "Style: %s\n", req.Style)
	}
	if len(req.Tags) > 0 {
		fmt.Fprintf(&b, "Work in these hashtags where they fit: #%s\n", strings.Join(req.Tags, " #"))
	}
	b.WriteString("\nEach variation must take a different angle.\nFormat your response exactly as:\n")
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&b, "===VARIATION %d===\n[post content]\n", i)
	}
	return b.String()
}

// parseVariations splits a completion on ===VARIATION n=== markers. Text
// before the first marker (preamble chatter) is discarded.
func parseVariations(response string) []string {
	var variations []string
	for _, block := range strings.Split(response, "===VARIATION")[1:] {
		// Drop the rest of the marker line ("1===", "2 ===", ...).
		if _, body, ok := strings.Cut(block, "==="); ok {
			block = body
		}
		if text := strings.TrimSpace(block); text != "" {
			variations = append(variations, text)
		}
	}
	return variations
}

// ImageConcepts derives the fixed candidate list of image concepts for a
// post. The list is deterministic for a given subject and tag set, so
// repeated calls agree without a second provider round trip.
func ImageConcepts(post *models.Post) []string {
	subject := post.Subject
	if subject == "" {
		subject = models.DeriveSubject(post.Content, 80)
	}
	if subject == "" {
		subject = "the post's topic"
	}

	theme := subject
	if len(post.Tags) > 0 {
		theme = fmt.Sprintf("%s (%s)", subject, strings.Join(post.Tags, ", "))
	}

	return []string{
		fmt.Sprintf("A clean, modern flat illustration representing %s", theme),
		fmt.Sprintf("A professional photograph capturing the essence of %s", subject),
		fmt.Sprintf("A minimalist abstract composition inspired by %s, bold shapes and two accent colours", subject),
		fmt.Sprintf("An isometric 3D scene telling a small story about %s", subject),
	}
}
