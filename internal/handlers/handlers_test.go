// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"postdeck/internal/ai"
	"postdeck/internal/generate"
	"postdeck/internal/lifecycle"
	"postdeck/internal/models"
	"postdeck/internal/notify"
	"postdeck/internal/poststore"
)

// stubRemote is an in-memory poststore.Store that hands out srv-N IDs.
type stubRemote struct {
	mu         sync.Mutex
	nextID     int
	failSave   bool
	failUpdate bool
	failList   bool
	deletes    int
	listResult []poststore.ServerPost
}

func (s *stubRemote) Save(ctx context.Context, req poststore.SaveRequest) (*poststore.ServerPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return nil, poststore.ErrRemoteUnavailable
	}
	s.nextID++
	return &poststore.ServerPost{
		ID:           fmt.Sprintf("srv-%d", s.nextID),
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		ScheduleTime: req.ScheduleTime,
		CreatedAt:    time.Now().UTC(),
		Tags:         req.Tags,
	}, nil
}

func (s *stubRemote) List(ctx context.Context, userID string) ([]poststore.ServerPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList {
		return nil, poststore.ErrRemoteUnavailable
	}
	return s.listResult, nil
}

func (s *stubRemote) Update(ctx context.Context, id, userID string, patch poststore.UpdatePatch) (*poststore.ServerPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdate {
		return nil, poststore.ErrRemoteUnavailable
	}
	return &poststore.ServerPost{ID: id}, nil
}

func (s *stubRemote) Delete(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	return nil
}

func (s *stubRemote) RemoveSchedule(ctx context.Context, id, userID string) (*poststore.ServerPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &poststore.ServerPost{ID: id}, nil
}

// stubSocial implements lifecycle.Network.
type stubSocial struct {
	mu         sync.Mutex
	publishErr error
	published  []string
}

func (s *stubSocial) Publish(ctx context.Context, content, imageURL, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.publishErr != nil {
		return s.publishErr
	}
	s.published = append(s.published, postID)
	return nil
}

// stubImages implements lifecycle.ImageGenerator.
type stubImages struct {
	url string
	err error
}

func (s *stubImages) GenerateImage(ctx context.Context, prompt, userID string) (string, error) {
	return s.url, s.err
}

type stubIdentity string

func (s stubIdentity) UserID(ctx context.Context) string { return string(s) }

// scriptedProvider implements ai.Provider with a canned completion.
type scriptedProvider struct{ response string }

func (p scriptedProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return p.response, nil
}

func (p scriptedProvider) Name() string { return "scripted" }

type fixture struct {
	api       *API
	lifecycle *lifecycle.Store
	remote    *stubRemote
	social    *stubSocial
	center    *notify.Center
}

func newFixture(response string) *fixture {
	remote := &stubRemote{}
	social := &stubSocial{}
	reg := ai.NewRegistry("scripted", nil)
	reg.Register("scripted", scriptedProvider{response: response})

	center := notify.NewCenter(50)
	lc := lifecycle.New(remote, social, &stubImages{url: "https://cdn.example.com/img.png"}, stubIdentity("user-1"), center)
	api := NewAPI(lc, generate.NewService(reg), center, nil, stubIdentity("user-1"), nil)

	return &fixture{api: api, lifecycle: lc, remote: remote, social: social, center: center}
}

func (f *fixture) addPending(id, content string) {
	f.lifecycle.AddPosts([]*models.Post{{
		ID:        id,
		Content:   content,
		Subject:   models.DeriveSubject(content, 80),
		Tags:      models.MergeTags(content, nil),
		Status:    models.StatusPending,
		CreatedAt: time.Now().UTC(),
	}})
}

// approve promotes a pending post through the real handler and returns the
// server-assigned ID.
func (f *fixture) approve(t *testing.T, id string) string {
	t.Helper()
	rr := do(t, f.api.ApprovePost, http.MethodPost, "/api/posts/"+id+"/approve", id, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("approve %s: status %d, body %s", id, rr.Code, rr.Body.String())
	}
	body := parseBody(t, rr)
	post := body["post"].(map[string]any)
	return post["id"].(string)
}

// do invokes a handler with an optional JSON body and chi {id} URL param.
func do(t *testing.T, h http.HandlerFunc, method, target, id, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func parseBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rr.Body.String())
	}
	return body
}

func wantSuccess(t *testing.T, rr *httptest.ResponseRecorder, want bool) map[string]any {
	t.Helper()

	body := parseBody(t, rr)
	if got, _ := body["success"].(bool); got != want {
		t.Errorf("success: got %v, want %v (body %s)", got, want, rr.Body.String())
	}
	return body
}
