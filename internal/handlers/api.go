// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API consumed by the swipe UI. Every
// response uses the {"success": bool} envelope; domain errors map onto
// HTTP statuses in writeError.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"postdeck/internal/cache"
	"postdeck/internal/generate"
	"postdeck/internal/identity"
	"postdeck/internal/lifecycle"
	"postdeck/internal/network"
	"postdeck/internal/notify"
	"postdeck/internal/poststore"
)

// API bundles the collaborators the HTTP layer drives.
type API struct {
	lifecycle *lifecycle.Store
	generator *generate.Service
	center    *notify.Center
	network   *network.Client
	identity  identity.Source
	previews  *cache.PreviewCache // nil disables preview caching
}

func NewAPI(lc *lifecycle.Store, gen *generate.Service, center *notify.Center,
	net *network.Client, ident identity.Source, previews *cache.PreviewCache) *API {
	return &API{
		lifecycle: lc,
		generator: gen,
		center:    center,
		network:   net,
		identity:  ident,
		previews:  previews,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	if _, ok := payload["success"]; !ok {
		payload["success"] = true
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses. The message is the
// error text; internal details are logged, not leaked.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, lifecycle.ErrNotFound), errors.Is(err, poststore.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, network.ErrNotConnected):
		status = http.StatusConflict
	case errors.Is(err, poststore.ErrValidationRejected):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, poststore.ErrRemoteUnavailable):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]any{"success": false, "error": err.Error()})
}

// decode reads a JSON body into dst, rejecting unknown fields so client
// typos fail loudly instead of silently dropping data.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": message})
}
