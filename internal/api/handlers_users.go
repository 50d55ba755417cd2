// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pmatlas/pmatlas/internal/database"
	"github.com/pmatlas/pmatlas/internal/gateway"
	"github.com/pmatlas/pmatlas/internal/maprender"
	"github.com/pmatlas/pmatlas/internal/models"
	"github.com/pmatlas/pmatlas/internal/validation"
)

// Me returns the caller's own profile, auto-provisioning on first access.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	p, ok := h.ownProfile(rw, r)
	if !ok {
		return
	}

	h.gw.TouchLastActive(r.Context(), p.ID)
	rw.Success(p)
}

// updateProfileRequest is the PUT /api/users/me body. All fields optional;
// provided slices and objects replace stored values wholesale.
type updateProfileRequest struct {
	Status       *string                 `json:"status" validate:"omitempty,memberstatus"`
	Experience   *string                 `json:"experience" validate:"omitempty,experience"`
	PMFocus      []string                `json:"pmFocus" validate:"omitempty,dive,max=40"`
	Industry     []string                `json:"industry" validate:"omitempty,dive,max=40"`
	CompanyStage []string                `json:"companyStage" validate:"omitempty,dive,max=40"`
	Skills       []string                `json:"skills" validate:"omitempty,dive,max=40"`
	Interests    []string                `json:"interests" validate:"omitempty,dive,max=40"`
	Location     *locationRequest        `json:"location"`
	Privacy      *models.PrivacySettings `json:"privacy"`
}

type locationRequest struct {
	Country     string              `json:"country" validate:"max=60"`
	State       string              `json:"state" validate:"max=60"`
	City        string              `json:"city" validate:"max=120"`
	ZipCode     string              `json:"zipCode" validate:"max=20"`
	Coordinates *models.Coordinates `json:"coordinates"`
	IsVisible   bool                `json:"isVisible"`
}

// toPatch converts the request body to the model patch, validating enum
// membership for the multi-valued classification fields.
func (req *updateProfileRequest) toPatch() (*models.ProfilePatch, string) {
	patch := &models.ProfilePatch{}

	if req.Status != nil {
		s := models.Status(*req.Status)
		patch.Status = &s
	}
	if req.Experience != nil {
		e := models.Experience(*req.Experience)
		patch.Experience = &e
	}

	if req.PMFocus != nil {
		patch.PMFocus = make([]models.Focus, len(req.PMFocus))
		for i, v := range req.PMFocus {
			f := models.Focus(v)
			if !f.Valid() {
				return nil, "pmFocus contains an unrecognized value: " + v
			}
			patch.PMFocus[i] = f
		}
	}
	if req.Industry != nil {
		patch.Industry = make([]models.Industry, len(req.Industry))
		for i, v := range req.Industry {
			ind := models.Industry(v)
			if !ind.Valid() {
				return nil, "industry contains an unrecognized value: " + v
			}
			patch.Industry[i] = ind
		}
	}
	if req.CompanyStage != nil {
		patch.CompanyStage = make([]models.CompanyStage, len(req.CompanyStage))
		for i, v := range req.CompanyStage {
			cs := models.CompanyStage(v)
			if !cs.Valid() {
				return nil, "companyStage contains an unrecognized value: " + v
			}
			patch.CompanyStage[i] = cs
		}
	}
	if req.Skills != nil {
		patch.Skills = make([]models.Skill, len(req.Skills))
		for i, v := range req.Skills {
			sk := models.Skill(v)
			if !sk.Valid() {
				return nil, "skills contains an unrecognized value: " + v
			}
			patch.Skills[i] = sk
		}
	}
	if req.Interests != nil {
		patch.Interests = make([]models.Interest, len(req.Interests))
		for i, v := range req.Interests {
			in := models.Interest(v)
			if !in.Valid() {
				return nil, "interests contains an unrecognized value: " + v
			}
			patch.Interests[i] = in
		}
	}

	if req.Location != nil {
		patch.Location = &models.Location{
			Country:     req.Location.Country,
			State:       req.Location.State,
			City:        req.Location.City,
			ZipCode:     req.Location.ZipCode,
			Coordinates: req.Location.Coordinates,
			IsVisible:   req.Location.IsVisible,
		}
	}
	patch.Privacy = req.Privacy

	return patch, ""
}

// UpdateMe applies a partial update to the caller's profile.
func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := identity(r.Context())
	if !ok {
		rw.Unauthorized("Authentication required")
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body: " + err.Error())
		return
	}
	if ve := validation.ValidateStruct(&req); ve != nil {
		rw.ValidationError(ve)
		return
	}

	patch, msg := req.toPatch()
	if msg != "" {
		rw.BadRequest(msg)
		return
	}

	// Provision first so a PUT on a brand-new subject succeeds.
	if _, err := h.gw.GetOrProvision(r.Context(), id); err != nil {
		if errors.Is(err, gateway.ErrEmailTaken) {
			rw.Error(http.StatusConflict, models.CodeValidationError, "Email address is already registered to another profile")
			return
		}
		rw.DatabaseError(err)
		return
	}

	p, err := h.gw.UpdateProfile(r.Context(), id.SubjectID, patch)
	if err != nil {
		if errors.Is(err, gateway.ErrEmailTaken) {
			rw.Error(http.StatusConflict, models.CodeValidationError, "Email address is already registered to another profile")
			return
		}
		rw.DatabaseError(err)
		return
	}
	rw.Success(p)
}

// MapMarkers returns the rendered map markers for all eligible profiles,
// viewer first.
func (h *Handlers) MapMarkers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := identity(r.Context())
	if !ok {
		rw.Unauthorized("Authentication required")
		return
	}

	// The viewer's profile may not exist yet; the map works without it.
	viewer, err := h.gw.GetProfile(r.Context(), id.SubjectID)
	if err != nil && !errors.Is(err, gateway.ErrProfileNotFound) {
		rw.DatabaseError(err)
		return
	}

	profiles, err := h.gw.MapProfiles(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	// Optional radius constraint: all three of lat, lng, radius (km).
	q := r.URL.Query()
	if q.Get("lat") != "" || q.Get("lng") != "" || q.Get("radius") != "" {
		lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
		lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
		radius, radErr := strconv.ParseFloat(q.Get("radius"), 64)
		if latErr != nil || lngErr != nil || radErr != nil || radius <= 0 {
			rw.BadRequest("lat, lng, and radius must all be provided as numbers, with radius positive")
			return
		}
		center := models.Coordinates{Lat: lat, Lng: lng}
		profiles = maprender.WithinRadius(profiles, center, radius)
		if viewer != nil {
			if kept := maprender.WithinRadius([]*models.Profile{viewer}, center, radius); len(kept) == 0 {
				viewer = nil
			}
		}
	}

	rw.Success(maprender.BuildMarkers(viewer, profiles))
}

// SearchUsers finds members matching the query parameters.
func (h *Handlers) SearchUsers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	q := r.URL.Query()
	filter := database.SearchFilter{
		Query:      q.Get("q"),
		Status:     models.Status(q.Get("status")),
		Experience: models.Experience(q.Get("experience")),
		Focus:      models.Focus(q.Get("pmFocus")),
		Industry:   models.Industry(q.Get("industry")),
		City:       q.Get("city"),
		Limit:      h.parseLimit(q.Get("limit")),
	}

	if filter.Status != "" && !filter.Status.Valid() {
		rw.BadRequest("status is not a recognized value")
		return
	}
	if filter.Experience != "" && !filter.Experience.Valid() {
		rw.BadRequest("experience is not a recognized value")
		return
	}

	profiles, err := h.gw.SearchProfiles(r.Context(), filter)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	results := make([]*models.SearchProfile, 0, len(profiles))
	for _, p := range profiles {
		sp := &models.SearchProfile{
			ID:         p.ID,
			Name:       p.Name,
			Avatar:     p.Avatar,
			Status:     p.Status,
			Experience: p.Experience,
			PMFocus:    p.PMFocus,
			Industry:   p.Industry,
		}
		if p.Location != nil {
			sp.City = p.Location.City
		}
		results = append(results, sp)
	}
	rw.Success(results)
}

// GetUser returns the public projection of another member's profile.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id := chi.URLParam(r, "id")
	p, err := h.gw.GetProfileByID(r.Context(), id)
	if errors.Is(err, gateway.ErrProfileNotFound) {
		rw.NotFound("Profile not found")
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	if p.Privacy.AnonymousMode {
		rw.Forbidden("This profile is private")
		return
	}
	rw.Success(p.Public())
}

// parseLimit clamps the page size between 1 and the configured maximum.
func (h *Handlers) parseLimit(raw string) int {
	limit := h.cfg.API.DefaultPageSize
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > h.cfg.API.MaxPageSize {
		limit = h.cfg.API.MaxPageSize
	}
	return limit
}
