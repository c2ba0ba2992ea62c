// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package poststore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks JSON over HTTP to the hosted post store API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a client for the hosted API at baseURL. The key is sent
// as a bearer token on every request.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// storeResponse is the hosted API's envelope. success=false with a 200
// status means the payload was rejected by validation, not that the store
// was unreachable.
type storeResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	Post    *ServerPost  `json:"post,omitempty"`
	Posts   []ServerPost `json:"posts,omitempty"`
}

func (c *Client) Save(ctx context.Context, req SaveRequest) (*ServerPost, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/posts", req)
	if err != nil {
		return nil, err
	}
	if resp.Post == nil {
		return nil, fmt.Errorf("post store save: %w: missing post in response", ErrRemoteUnavailable)
	}
	return resp.Post, nil
}

func (c *Client) List(ctx context.Context, userID string) ([]ServerPost, error) {
	path := "/api/posts?user_id=" + url.QueryEscape(userID)
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

func (c *Client) Update(ctx context.Context, id, userID string, patch UpdatePatch) (*ServerPost, error) {
	path := fmt.Sprintf("/api/posts/%s?user_id=%s", url.PathEscape(id), url.QueryEscape(userID))
	resp, err := c.do(ctx, http.MethodPatch, path, patch)
	if err != nil {
		return nil, err
	}
	if resp.Post == nil {
		return nil, fmt.Errorf("post store update: %w: missing post in response", ErrRemoteUnavailable)
	}
	return resp.Post, nil
}

func (c *Client) Delete(ctx context.Context, id, userID string) error {
	path := fmt.Sprintf("/api/posts/%s?user_id=%s", url.PathEscape(id), url.QueryEscape(userID))
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

func (c *Client) RemoveSchedule(ctx context.Context, id, userID string) (*ServerPost, error) {
	path := fmt.Sprintf("/api/posts/%s/schedule?user_id=%s", url.PathEscape(id), url.QueryEscape(userID))
	resp, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}
	if resp.Post == nil {
		return nil, fmt.Errorf("post store remove schedule: %w: missing post in response", ErrRemoteUnavailable)
	}
	return resp.Post, nil
}

// do performs one API round trip. Transport failures and non-2xx statuses
// map to ErrRemoteUnavailable (404 to ErrNotFound); an explicit
// success=false envelope maps to ErrValidationRejected.
func (c *Client) do(ctx context.Context, method, path string, payload any) (*storeResponse, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("post store marshal: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("post store request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post store %s %s: %w: %v", method, path, ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("post store read body: %w: %v", ErrRemoteUnavailable, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("post store %s %s: %w", method, path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("post store %s %s (status %d): %w", method, path, resp.StatusCode, ErrRemoteUnavailable)
	}

	var out storeResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("post store unmarshal: %w: %v", ErrRemoteUnavailable, err)
	}

	if !out.Success {
		if out.Error != "" {
			return nil, fmt.Errorf("post store: %w: %s", ErrValidationRejected, out.Error)
		}
		return nil, fmt.Errorf("post store: %w", ErrValidationRejected)
	}

	return &out, nil
}
