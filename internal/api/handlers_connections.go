// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pmatlas/pmatlas/internal/database"
	"github.com/pmatlas/pmatlas/internal/gateway"
	"github.com/pmatlas/pmatlas/internal/models"
	"github.com/pmatlas/pmatlas/internal/validation"
)

// createConnectionRequest is the POST /api/connections body.
type createConnectionRequest struct {
	RecipientID string `json:"recipientId" validate:"required,uuid"`
	Message     string `json:"message" validate:"max=500"`
}

// CreateConnection sends a connection request to another member.
func (h *Handlers) CreateConnection(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	requester, ok := h.ownProfile(rw, r)
	if !ok {
		return
	}

	var req createConnectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body: " + err.Error())
		return
	}
	if ve := validation.ValidateStruct(&req); ve != nil {
		rw.ValidationError(ve)
		return
	}
	if req.RecipientID == requester.ID {
		rw.BadRequest("Cannot send a connection request to yourself")
		return
	}

	recipient, err := h.gw.GetProfileByID(r.Context(), req.RecipientID)
	if errors.Is(err, gateway.ErrProfileNotFound) {
		rw.NotFound("Recipient not found")
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	if !recipient.Privacy.AllowConnections {
		rw.Forbidden("This member does not accept connection requests")
		return
	}

	now := time.Now().UTC()
	conn := &models.Connection{
		ID:          uuid.New().String(),
		RequesterID: requester.ID,
		RecipientID: recipient.ID,
		Status:      models.ConnectionPending,
		Message:     req.Message,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = h.db.CreateConnection(r.Context(), conn)
	if errors.Is(err, database.ErrDuplicateConnection) {
		rw.Error(http.StatusConflict, models.CodeValidationError, "A connection request already exists for this member")
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Created(conn)
}

// updateConnectionRequest is the PUT /api/connections/{id} body.
type updateConnectionRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted declined blocked"`
}

// UpdateConnection lets the recipient accept, decline, or block a request.
func (h *Handlers) UpdateConnection(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	caller, ok := h.ownProfile(rw, r)
	if !ok {
		return
	}

	var req updateConnectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body: " + err.Error())
		return
	}
	if ve := validation.ValidateStruct(&req); ve != nil {
		rw.ValidationError(ve)
		return
	}

	id := chi.URLParam(r, "id")
	conn, err := h.db.GetConnection(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		rw.NotFound("Connection not found")
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	if conn.RecipientID != caller.ID {
		rw.Forbidden("Only the recipient can respond to a connection request")
		return
	}

	status := models.ConnectionStatus(req.Status)
	if err := h.db.UpdateConnectionStatus(r.Context(), id, status, time.Now().UTC()); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			rw.NotFound("Connection not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	conn.Status = status
	rw.Success(conn)
}

// ListConnections returns the caller's connections in both directions.
func (h *Handlers) ListConnections(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	caller, ok := h.ownProfile(rw, r)
	if !ok {
		return
	}

	conns, err := h.db.ListConnections(r.Context(), caller.ID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(conns)
}
