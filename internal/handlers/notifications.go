// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"
)

// ListNotifications returns recent user-visible notifications, newest first.
func (a *API) ListNotifications(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(w, "invalid limit: "+raw)
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": a.center.Recent(limit)})
}
