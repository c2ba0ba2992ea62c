// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// GenerateImagePrompts returns the post's candidate image concepts,
// generating them on first call.
func (a *API) GenerateImagePrompts(w http.ResponseWriter, r *http.Request) {
	prompts, err := a.lifecycle.GenerateImagePrompts(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"prompts": prompts})
}

// SelectImagePrompt records which concept the user picked.
func (a *API) SelectImagePrompt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		badRequest(w, "prompt is required")
		return
	}

	if err := a.lifecycle.SelectImagePrompt(chi.URLParam(r, "id"), req.Prompt); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// GenerateImage renders an image for the post. The response always carries
// a URL; generation failures fall back to the placeholder.
func (a *API) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if r.ContentLength > 0 {
		if err := decode(r, &req); err != nil {
			badRequest(w, "invalid request body: "+err.Error())
			return
		}
	}

	url, err := a.lifecycle.GenerateImage(r.Context(), chi.URLParam(r, "id"), req.Prompt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"image_url": url})
}

// UpdatePostImage attaches an already-hosted image URL to the post.
func (a *API) UpdatePostImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageURL string `json:"image_url"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.ImageURL == "" {
		badRequest(w, "image_url is required")
		return
	}

	post, err := a.lifecycle.UpdatePostImage(r.Context(), chi.URLParam(r, "id"), req.ImageURL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}
