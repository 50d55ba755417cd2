// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pmatlas/pmatlas/internal/auth"
	"github.com/pmatlas/pmatlas/internal/config"
	"github.com/pmatlas/pmatlas/internal/database"
	"github.com/pmatlas/pmatlas/internal/gateway"
	"github.com/pmatlas/pmatlas/internal/models"
)

// Handlers holds the dependencies shared by all endpoint handlers.
type Handlers struct {
	gw  *gateway.Gateway
	db  *database.DB
	cfg *config.Config
}

// NewHandlers creates the handler set.
func NewHandlers(gw *gateway.Gateway, db *database.DB, cfg *config.Config) *Handlers {
	return &Handlers{gw: gw, db: db, cfg: cfg}
}

// identity builds the provisioning identity from the request's validated
// claims. The auth middleware guarantees claims are present on API routes.
func identity(ctx context.Context) (gateway.Identity, bool) {
	claims, ok := auth.FromContext(ctx)
	if !ok {
		return gateway.Identity{}, false
	}
	return gateway.Identity{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		Avatar:    claims.Picture,
	}, true
}

// ownProfile resolves the caller's profile, provisioning it on first access.
func (h *Handlers) ownProfile(rw *ResponseWriter, r *http.Request) (*models.Profile, bool) {
	id, ok := identity(r.Context())
	if !ok {
		rw.Unauthorized("Authentication required")
		return nil, false
	}

	p, err := h.gw.GetOrProvision(r.Context(), id)
	if errors.Is(err, gateway.ErrEmailTaken) {
		rw.Error(http.StatusConflict, models.CodeValidationError, "Email address is already registered to another profile")
		return nil, false
	}
	if err != nil {
		rw.DatabaseError(err)
		return nil, false
	}
	return p, true
}

// Health reports service health including primary store availability.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	primaryUp := h.gw.Available(r.Context())
	status := "ok"
	if !primaryUp {
		status = "degraded"
	}

	rw.Success(map[string]interface{}{
		"status":    status,
		"primary":   primaryUp,
		"timestamp": time.Now().UTC(),
	})
}

// HealthLive is the liveness probe.
func (h *Handlers) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady is the readiness probe. The service stays ready in degraded
// mode; the fallback store serves profile traffic.
func (h *Handlers) HealthReady(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "ready"})
}
