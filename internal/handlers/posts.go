// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"postdeck/internal/generate"
	"postdeck/internal/lifecycle"
	"postdeck/internal/models"
	"postdeck/internal/scheduling"
)

// Generate drafts a batch of posts and adds them to the pending pile.
func (a *API) Generate(w http.ResponseWriter, r *http.Request) {
	var req generate.Request
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		badRequest(w, "topic is required")
		return
	}

	posts, err := a.generator.Drafts(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	a.lifecycle.AddPosts(posts)
	writeJSON(w, http.StatusCreated, map[string]any{"posts": posts})
}

// ListPosts returns the collection, optionally filtered by status.
func (a *API) ListPosts(w http.ResponseWriter, r *http.Request) {
	var posts []*models.Post
	switch status := r.URL.Query().Get("status"); status {
	case "":
		posts = a.lifecycle.All()
	case string(models.StatusPending):
		posts = a.lifecycle.Pending()
	case string(models.StatusApproved):
		posts = a.lifecycle.Approved()
	case string(models.StatusRejected):
		posts = a.lifecycle.Rejected()
	case string(models.StatusPublished):
		posts = a.lifecycle.Published()
	default:
		badRequest(w, "unknown status filter: "+status)
		return
	}

	if posts == nil {
		posts = []*models.Post{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// GetPost returns a single post by ID.
func (a *API) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := a.lifecycle.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

// ApprovePost persists a pending draft; the response carries the post with
// its new server-assigned ID.
func (a *API) ApprovePost(w http.ResponseWriter, r *http.Request) {
	post, err := a.lifecycle.ApprovePost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

// RejectPost discards a pending draft locally.
func (a *API) RejectPost(w http.ResponseWriter, r *http.Request) {
	post, err := a.lifecycle.RejectPost(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

// UpdatePost applies a partial edit.
func (a *API) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content      *string    `json:"content"`
		Tags         *[]string  `json:"tags"`
		ImageURL     *string    `json:"image_url"`
		ScheduledFor *time.Time `json:"scheduled_for"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	post, err := a.lifecycle.UpdatePost(r.Context(), chi.URLParam(r, "id"), lifecycle.UpdateRequest{
		Content:      req.Content,
		Tags:         req.Tags,
		ImageURL:     req.ImageURL,
		ScheduledFor: req.ScheduledFor,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

// DeletePost removes a post, remote-first for persisted ones.
func (a *API) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := a.lifecycle.DeletePost(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// PublishPost sends an approved post to the network.
func (a *API) PublishPost(w http.ResponseWriter, r *http.Request) {
	post, err := a.lifecycle.PublishPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

// SchedulePost sets the post's schedule from either a full timestamp or a
// date + "HH:MM" pair. The timestamp must be in the future.
func (a *API) SchedulePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScheduledFor *time.Time `json:"scheduled_for"`
		Date         string     `json:"date"`
		Time         string     `json:"time"`
		Timezone     string     `json:"timezone"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	var when time.Time
	switch {
	case req.ScheduledFor != nil:
		when = *req.ScheduledFor
	case req.Date != "" && req.Time != "":
		loc := time.Local
		if req.Timezone != "" {
			var err error
			if loc, err = time.LoadLocation(req.Timezone); err != nil {
				badRequest(w, "unknown timezone: "+req.Timezone)
				return
			}
		}
		date, err := time.ParseInLocation("2006-01-02", req.Date, loc)
		if err != nil {
			badRequest(w, "invalid date: "+req.Date)
			return
		}
		if when, err = scheduling.Combine(date, req.Time, loc); err != nil {
			badRequest(w, err.Error())
			return
		}
	default:
		badRequest(w, "scheduled_for or date+time is required")
		return
	}

	if err := scheduling.ValidateFuture(when, time.Now()); err != nil {
		badRequest(w, err.Error())
		return
	}

	post, err := a.lifecycle.SchedulePost(r.Context(), chi.URLParam(r, "id"), when)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

// RemoveSchedule clears the post's schedule.
func (a *API) RemoveSchedule(w http.ResponseWriter, r *http.Request) {
	post, err := a.lifecycle.RemoveSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

// ReloadPosts replaces the collection with the server's records. Unsaved
// pending and rejected drafts do not survive; the swipe UI warns before
// calling this.
func (a *API) ReloadPosts(w http.ResponseWriter, r *http.Request) {
	if err := a.lifecycle.LoadUserPosts(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	posts := a.lifecycle.All()
	if posts == nil {
		posts = []*models.Post{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}
