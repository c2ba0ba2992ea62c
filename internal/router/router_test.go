// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chain, and the health endpoint.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"postdeck/internal/ai"
	"postdeck/internal/generate"
	"postdeck/internal/handlers"
	"postdeck/internal/lifecycle"
	"postdeck/internal/middleware"
	"postdeck/internal/notify"
	"postdeck/internal/poststore"
)

// nopStore satisfies poststore.Store without touching any backend.
type nopStore struct{}

func (nopStore) Save(ctx context.Context, req poststore.SaveRequest) (*poststore.ServerPost, error) {
	return &poststore.ServerPost{ID: "srv-1", Description: req.Description}, nil
}

func (nopStore) List(ctx context.Context, userID string) ([]poststore.ServerPost, error) {
	return nil, nil
}

func (nopStore) Update(ctx context.Context, id, userID string, patch poststore.UpdatePatch) (*poststore.ServerPost, error) {
	return &poststore.ServerPost{ID: id}, nil
}

func (nopStore) Delete(ctx context.Context, id, userID string) error { return nil }

func (nopStore) RemoveSchedule(ctx context.Context, id, userID string) (*poststore.ServerPost, error) {
	return &poststore.ServerPost{ID: id}, nil
}

type nopNetwork struct{}

func (nopNetwork) Publish(ctx context.Context, content, imageURL, postID string) error { return nil }

type staticIdentity string

func (s staticIdentity) UserID(ctx context.Context) string { return string(s) }

func newTestRouter(limiter *middleware.RateLimiter) http.Handler {
	center := notify.NewCenter(10)
	lc := lifecycle.New(nopStore{}, nopNetwork{}, nil, staticIdentity("user-1"), center)
	gen := generate.NewService(ai.NewRegistry("openai", nil))
	api := handlers.NewAPI(lc, gen, center, nil, staticIdentity("user-1"), nil)
	return New(api, limiter)
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestRoutes(t *testing.T) {
	router := newTestRouter(nil)

	t.Run("list posts", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/posts", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200 (%s)", w.Code, w.Body.String())
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["success"] != true {
			t.Errorf("success: got %v, want true", body["success"])
		}
	})

	t.Run("security headers applied", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/posts", nil))

		if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("X-Content-Type-Options: got %q, want nosniff", got)
		}
	})

	t.Run("unknown route is a 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/nope", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", w.Code)
		}
	})

	t.Run("wrong method is a 405", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/generate", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("status: got %d, want 405", w.Code)
		}
	})

	t.Run("unknown post through the full chain", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/posts/nope", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", w.Code)
		}
	})
}

func TestRateLimiterWired(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute)
	defer limiter.Stop()
	router := newTestRouter(limiter)

	var last int
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/posts", nil))
		last = w.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request: got %d, want 429", last)
	}
}
