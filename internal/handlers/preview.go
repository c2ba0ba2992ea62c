// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"postdeck/internal/cache"
	"postdeck/internal/markdown"
)

// PreviewPost renders the post body to HTML the way the network will show
// it. Rendered previews are cached by body hash when a cache is wired.
func (a *API) PreviewPost(w http.ResponseWriter, r *http.Request) {
	post, err := a.lifecycle.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	key := cache.Key(post.Content)
	if a.previews != nil {
		if html, ok := a.previews.Get(r.Context(), key); ok {
			writeJSON(w, http.StatusOK, map[string]any{"html": html})
			return
		}
	}

	html, err := markdown.ToHTML(post.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	if a.previews != nil {
		a.previews.Set(r.Context(), key, html)
	}
	writeJSON(w, http.StatusOK, map[string]any{"html": html})
}
