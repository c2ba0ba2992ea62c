// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ModerationResult reports whether a prompt passed the safety check and,
// if not, which policy categories were flagged.
type ModerationResult struct {
	Safe       bool
	Categories []string
}

// Moderator screens drafting prompts through the OpenAI moderation API
// before they are sent to a generation provider.
type Moderator struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// newModerator creates a moderator against the OpenAI moderation endpoint.
func newModerator(apiKey, baseURL string) *Moderator {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &Moderator{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// CheckSafety submits the prompt for moderation. Flagged categories are
// returned sorted as emitted by the API.
func (m *Moderator) CheckSafety(ctx context.Context, prompt string) (*ModerationResult, error) {
	payload, err := json.Marshal(moderationRequest{Input: prompt})
	if err != nil {
		return nil, fmt.Errorf("moderation marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/moderations", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("moderation request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("moderation http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("moderation read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("moderation API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result moderationResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("moderation unmarshal: %w", err)
	}

	if len(result.Results) == 0 {
		return nil, fmt.Errorf("moderation: empty results")
	}

	out := &ModerationResult{Safe: !result.Results[0].Flagged}
	for category, flagged := range result.Results[0].Categories {
		if flagged {
			out.Categories = append(out.Categories, category)
		}
	}
	return out, nil
}

// --- OpenAI moderation API types ---

type moderationRequest struct {
	Input string `json:"input"`
}

type moderationResponse struct {
	Results []struct {
		Flagged    bool            `json:"flagged"`
		Categories map[string]bool `json:"categories"`
	} `json:"results"`
}
