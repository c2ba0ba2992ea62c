// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package network wraps the social-network integration API: publishing and
// the session "connected" flag. Publish short-circuits with ErrNotConnected
// before any HTTP traffic when the account is not linked.
package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotConnected is returned when a publish is attempted without a linked
// social account.
var ErrNotConnected = errors.New("social account not connected")

const connectedKey = "network:connected"

// Client talks to the social-network integration API. The connected flag
// lives in Valkey so it survives restarts and is shared with the identity
// listener's session events.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	rdb     *redis.Client
}

func NewClient(baseURL, apiKey string, rdb *redis.Client) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		rdb:     rdb,
	}
}

// Connected reports whether a social account is currently linked. Store
// errors read as not-connected; publishing then fails closed.
func (c *Client) Connected(ctx context.Context) bool {
	val, err := c.rdb.Get(ctx, connectedKey).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		slog.Warn("network connected flag read failed", "error", err)
		return false
	}
	return val == "1"
}

// SetConnected records the link state.
func (c *Client) SetConnected(ctx context.Context, connected bool) error {
	val := "0"
	if connected {
		val = "1"
	}
	if err := c.rdb.Set(ctx, connectedKey, val, 0).Err(); err != nil {
		return fmt.Errorf("network set connected: %w", err)
	}
	slog.Info("network link state changed", "connected", connected)
	return nil
}

type publishRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
	PostID   string `json:"post_id,omitempty"`
}

type networkResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Publish posts the content to the linked social account immediately.
func (c *Client) Publish(ctx context.Context, content, imageURL, postID string) error {
	if !c.Connected(ctx) {
		return ErrNotConnected
	}
	return c.post(ctx, "/api/publish", publishRequest{
		Content:  content,
		ImageURL: imageURL,
		PostID:   postID,
	})
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("network marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("network request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("network http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("network read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("network API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var out networkResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return fmt.Errorf("network unmarshal: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("network rejected request: %s", out.Error)
	}
	return nil
}
