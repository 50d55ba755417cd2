// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pmatlas/pmatlas/internal/models"
	"github.com/pmatlas/pmatlas/internal/validation"
)

// ListResources returns curated resources, optionally narrowed by category
// and type.
func (h *Handlers) ListResources(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	q := r.URL.Query()
	category := models.ResourceCategory(q.Get("category"))
	if category != "" && !category.Valid() {
		rw.BadRequest("category is not a recognized value")
		return
	}

	resources, err := h.db.ListResources(r.Context(), category)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	if typ := models.ResourceType(q.Get("type")); typ != "" {
		if !typ.Valid() {
			rw.BadRequest("type is not a recognized value")
			return
		}
		narrowed := make([]*models.Resource, 0, len(resources))
		for _, res := range resources {
			if res.Type == typ {
				narrowed = append(narrowed, res)
			}
		}
		resources = narrowed
	}
	rw.Success(resources)
}

// createResourceRequest is the POST /api/resources body.
type createResourceRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	URL         string   `json:"url" validate:"required,url"`
	Category    string   `json:"category" validate:"required"`
	Type        string   `json:"type" validate:"required"`
	Tags        []string `json:"tags" validate:"omitempty,max=10,dive,max=40"`
}

// CreateResource submits a new community resource.
func (h *Handlers) CreateResource(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	submitter, ok := h.ownProfile(rw, r)
	if !ok {
		return
	}

	var req createResourceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body: " + err.Error())
		return
	}
	if ve := validation.ValidateStruct(&req); ve != nil {
		rw.ValidationError(ve)
		return
	}

	category := models.ResourceCategory(req.Category)
	if !category.Valid() {
		rw.BadRequest("category is not a recognized value")
		return
	}
	typ := models.ResourceType(req.Type)
	if !typ.Valid() {
		rw.BadRequest("type is not a recognized value")
		return
	}

	resource := &models.Resource{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		Category:    category,
		Type:        typ,
		SubmittedBy: submitter.ID,
		Tags:        req.Tags,
		CreatedAt:   time.Now().UTC(),
	}
	if resource.Tags == nil {
		resource.Tags = []string{}
	}

	if err := h.db.CreateResource(r.Context(), resource); err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Created(resource)
}
