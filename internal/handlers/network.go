// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import "net/http"

// NetworkStatus reports whether a social account is linked, along with the
// active user identity.
func (a *API) NetworkStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"connected": a.network.Connected(r.Context()),
		"user_id":   a.identity.UserID(r.Context()),
	})
}

// SetNetworkConnected flips the social account link flag.
func (a *API) SetNetworkConnected(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Connected bool `json:"connected"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := a.network.SetConnected(r.Context(), req.Connected); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"connected": req.Connected})
}
