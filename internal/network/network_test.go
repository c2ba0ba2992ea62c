// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package network

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
)

// testClient returns a Valkey client for tests. Skips if unavailable.
func testRedis(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		client.Del(ctx, connectedKey)
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestPublishNotConnected(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no HTTP call should be made when not connected")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", rdb)
	if err := c.SetConnected(ctx, false); err != nil {
		t.Fatalf("SetConnected: %v", err)
	}

	err := c.Publish(ctx, "content", "", "p1")
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("err = %v, want ErrNotConnected", err)
	}
}

func TestPublishConnected(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()

	var gotReq *http.Request
	var gotBody publishRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-9", rdb)
	if err := c.SetConnected(ctx, true); err != nil {
		t.Fatalf("SetConnected: %v", err)
	}

	if err := c.Publish(ctx, "the body", "https://img/x.png", "p1"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if gotReq.URL.Path != "/api/publish" {
		t.Errorf("path = %q", gotReq.URL.Path)
	}
	if auth := gotReq.Header.Get("Authorization"); auth != "Bearer key-9" {
		t.Errorf("Authorization = %q", auth)
	}
	if gotBody.Content != "the body" || gotBody.PostID != "p1" {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestPublishRejected(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"rate limited"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", rdb)
	c.SetConnected(ctx, true)

	if err := c.Publish(ctx, "x", "", ""); err == nil {
		t.Fatal("expected error for success=false response")
	}
}

func TestConnectedFlagPersists(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()

	c := NewClient("http://unused", "", rdb)
	if err := c.SetConnected(ctx, true); err != nil {
		t.Fatalf("SetConnected: %v", err)
	}

	// A second client sharing the store sees the same state.
	c2 := NewClient("http://unused", "", rdb)
	if !c2.Connected(ctx) {
		t.Error("connected flag should be shared through the store")
	}
}
