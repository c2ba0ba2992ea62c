// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"regexp"
	"strings"
	"time"
)

// PostStatus represents where a post sits in its lifecycle.
type PostStatus string

const (
	// StatusPending and StatusRejected are client-only states — posts in
	// these states have no server representation.
	StatusPending  PostStatus = "pending"
	StatusRejected PostStatus = "rejected"

	// StatusApproved and StatusPublished correspond to server-persisted posts.
	StatusApproved  PostStatus = "approved"
	StatusPublished PostStatus = "published"
)

// CanTransition reports whether moving from one status to another follows
// the allowed directed edges: pending→approved, pending→rejected,
// approved→published. There is no way out of rejected or published except
// deletion.
func CanTransition(from, to PostStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusPublished
	default:
		return false
	}
}

// Persisted reports whether a post in this status has a server-side record.
func (s PostStatus) Persisted() bool {
	return s == StatusApproved || s == StatusPublished
}

// Analytics holds read-only engagement counters sourced from the social
// network. Never mutated locally.
type Analytics struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Views    int `json:"views"`
}

// Post is a single content draft moving through the lifecycle. Before
// approval the ID is a client-generated ephemeral identifier; once approved
// it is replaced by the server-assigned ID and the ephemeral one is dead.
type Post struct {
	ID                  string     `json:"id"`
	Content             string     `json:"content"`
	Subject             string     `json:"subject,omitempty"`
	Tags                []string   `json:"tags,omitempty"`
	Status              PostStatus `json:"status"`
	ImagePrompts        []string   `json:"image_prompts,omitempty"`
	SelectedImagePrompt string     `json:"selected_image_prompt,omitempty"`
	ImageURL            string     `json:"image_url,omitempty"`
	ScheduledFor        *time.Time `json:"scheduled_for,omitempty"`
	PublishedAt         *time.Time `json:"published_at,omitempty"`
	Tone                string     `json:"tone,omitempty"`
	Style               string     `json:"style,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	Analytics           *Analytics `json:"analytics,omitempty"`
}

// Clone returns a deep copy of the post. Used by the lifecycle store to take
// pre-operation snapshots for optimistic rollback.
func (p *Post) Clone() *Post {
	c := *p
	if p.Tags != nil {
		c.Tags = append([]string(nil), p.Tags...)
	}
	if p.ImagePrompts != nil {
		c.ImagePrompts = append([]string(nil), p.ImagePrompts...)
	}
	if p.ScheduledFor != nil {
		t := *p.ScheduledFor
		c.ScheduledFor = &t
	}
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		c.PublishedAt = &t
	}
	if p.Analytics != nil {
		a := *p.Analytics
		c.Analytics = &a
	}
	return &c
}

var hashtagPattern = regexp.MustCompile(`#([\p{L}0-9_]+)`)

// ExtractHashtags returns the hashtag tokens found in the content, in order
// of first appearance and without the leading '#'.
func ExtractHashtags(content string) []string {
	var tags []string
	for _, m := range hashtagPattern.FindAllStringSubmatch(content, -1) {
		tags = append(tags, m[1])
	}
	return tags
}

// MergeTags unions in-text hashtags with explicit tags, preserving first-seen
// order and removing duplicates. Comparison is case-sensitive.
func MergeTags(content string, explicit []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range append(ExtractHashtags(content), explicit...) {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// DeriveSubject returns a short label taken from the first non-empty line of
// the content, truncated to maxLen runes.
func DeriveSubject(content string, maxLen int) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > maxLen {
			return strings.TrimSpace(string(runes[:maxLen]))
		}
		return line
	}
	return ""
}
