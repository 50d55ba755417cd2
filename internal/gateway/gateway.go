// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

// Package gateway routes profile persistence between the primary DuckDB store
// and the local Badger fallback. Reads and writes go to the primary; when the
// primary is unavailable (missing relations, lost connection, or an open
// circuit breaker) profile operations transparently use the fallback store.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pmatlas/pmatlas/internal/database"
	"github.com/pmatlas/pmatlas/internal/fallback"
	"github.com/pmatlas/pmatlas/internal/geocode"
	"github.com/pmatlas/pmatlas/internal/logging"
	"github.com/pmatlas/pmatlas/internal/metrics"
	"github.com/pmatlas/pmatlas/internal/models"
)

// ErrProfileNotFound is returned when neither store holds the profile.
var ErrProfileNotFound = errors.New("profile not found")

// ErrEmailTaken is returned when a write would claim an email address already
// registered to another profile.
var ErrEmailTaken = errors.New("email already registered")

// probeTimeout bounds the primary availability check.
const probeTimeout = 2 * time.Second

// PrimaryStore is the profile surface of the primary database.
type PrimaryStore interface {
	GetProfileBySubject(ctx context.Context, subjectID string) (*models.Profile, error)
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, p *models.Profile) error
	ListMapProfiles(ctx context.Context) ([]*models.Profile, error)
	SearchProfiles(ctx context.Context, filter database.SearchFilter) ([]*models.Profile, error)
	TouchLastActive(ctx context.Context, id string, at time.Time) error
	Ping(ctx context.Context) error
}

// Gateway is the persistence facade used by the API layer.
type Gateway struct {
	primary  PrimaryStore
	fallback *fallback.Store
	breaker  *breaker
}

// New creates a gateway over the primary and fallback stores.
func New(primary PrimaryStore, fb *fallback.Store) *Gateway {
	return &Gateway{
		primary:  primary,
		fallback: fb,
		breaker:  newBreaker("primary-store"),
	}
}

// Available probes the primary store with a bounded timeout.
func (g *Gateway) Available(ctx context.Context) bool {
	_, err := g.breaker.execute(func() (interface{}, error) {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		if err := g.primary.Ping(probeCtx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	metrics.RecordPrimaryProbe(err == nil)
	return err == nil
}

// GetProfile retrieves the profile owned by an identity-provider subject.
func (g *Gateway) GetProfile(ctx context.Context, subjectID string) (*models.Profile, error) {
	p, err := g.readThrough(ctx,
		func() (*models.Profile, error) { return g.primary.GetProfileBySubject(ctx, subjectID) },
		func() (*models.Profile, error) { return g.fallback.GetBySubject(subjectID) },
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProfileByID retrieves a profile by its primary key.
func (g *Gateway) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	p, err := g.readThrough(ctx,
		func() (*models.Profile, error) { return g.primary.GetProfileByID(ctx, id) },
		func() (*models.Profile, error) { return g.fallback.GetByID(id) },
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Identity carries the verified token claims used to provision a profile.
type Identity struct {
	SubjectID string
	Email     string
	Name      string
	Avatar    string
}

// GetOrProvision returns the subject's profile, creating a minimal one on
// first contact. A provisioned profile starts with empty classification
// fields and default privacy, and is therefore incomplete.
func (g *Gateway) GetOrProvision(ctx context.Context, id Identity) (*models.Profile, error) {
	p, err := g.GetProfile(ctx, id.SubjectID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	p = &models.Profile{
		ID:         uuid.New().String(),
		SubjectID:  id.SubjectID,
		Email:      id.Email,
		Name:       id.Name,
		Avatar:     id.Avatar,
		PMFocus:    []models.Focus{},
		Industry:   []models.Industry{},
		Skills:     []models.Skill{},
		Interests:  []models.Interest{},
		Privacy:    models.DefaultPrivacy(),
		LastActive: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	p.IsProfileComplete = p.ComputeComplete()

	if err := g.writeThrough(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to provision profile: %w", err)
	}

	logging.Ctx(ctx).Info().Str("profile_id", p.ID).Msg("Provisioned new profile")
	return p, nil
}

// UpdateProfile applies a partial update to the subject's profile. Provided
// slices and objects replace stored values wholesale; completeness is
// recomputed, and missing coordinates are resolved from the geocode table
// when the patched location carries a city and state.
func (g *Gateway) UpdateProfile(ctx context.Context, subjectID string, patch *models.ProfilePatch) (*models.Profile, error) {
	p, err := g.GetProfile(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	patch.Apply(p)
	g.enrichLocation(p)

	now := time.Now().UTC()
	p.UpdatedAt = now
	p.LastActive = now

	if err := g.writeThrough(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return p, nil
}

// TouchLastActive stamps activity on the profile, best effort.
func (g *Gateway) TouchLastActive(ctx context.Context, profileID string) {
	if err := g.primary.TouchLastActive(ctx, profileID, time.Now().UTC()); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("profile_id", profileID).Msg("Failed to touch last_active")
	}
}

// MapProfiles returns all profiles eligible for map display.
func (g *Gateway) MapProfiles(ctx context.Context) ([]*models.Profile, error) {
	result, err := g.listThrough(ctx,
		func() ([]*models.Profile, error) { return g.primary.ListMapProfiles(ctx) },
		func(all []*models.Profile) []*models.Profile {
			var eligible []*models.Profile
			for _, p := range all {
				if mapEligible(p) {
					eligible = append(eligible, p)
				}
			}
			return eligible
		},
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SearchProfiles finds non-anonymous members matching the filter.
func (g *Gateway) SearchProfiles(ctx context.Context, filter database.SearchFilter) ([]*models.Profile, error) {
	result, err := g.listThrough(ctx,
		func() ([]*models.Profile, error) { return g.primary.SearchProfiles(ctx, filter) },
		func(all []*models.Profile) []*models.Profile { return filterProfiles(all, filter) },
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// enrichLocation resolves coordinates from the static geocode table when the
// profile has a city/state location without an explicit point.
func (g *Gateway) enrichLocation(p *models.Profile) {
	loc := p.Location
	if loc == nil || loc.Coordinates != nil || loc.State == "" {
		return
	}

	coords, ok := geocode.Resolve(loc.City, loc.State)
	if !ok {
		metrics.RecordGeocodeLookup("miss")
		return
	}
	if geocode.HasCity(loc.City, loc.State) {
		metrics.RecordGeocodeLookup("city")
	} else {
		metrics.RecordGeocodeLookup("state")
	}
	loc.Coordinates = &coords
}

// readThrough runs a primary read, falling back when the primary is
// unavailable. Not-found results are never satisfied from the other store's
// absence of data: a found row wins, a missing row is ErrProfileNotFound.
func (g *Gateway) readThrough(ctx context.Context,
	fromPrimary func() (*models.Profile, error),
	fromFallback func() (*models.Profile, error),
) (*models.Profile, error) {
	p, err := g.callPrimary(func() (interface{}, error) {
		return fromPrimary()
	})
	if err == nil {
		return p.(*models.Profile), nil
	}
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if !g.shouldFallBack(err) {
		return nil, err
	}

	metrics.RecordFallbackRead()
	logging.Ctx(ctx).Warn().Err(err).Msg("Primary store unavailable, reading profile from fallback")

	fp, ferr := fromFallback()
	if errors.Is(ferr, fallback.ErrProfileNotFound) {
		return nil, ErrProfileNotFound
	}
	if ferr != nil {
		return nil, ferr
	}
	return fp, nil
}

// writeThrough persists a profile to the primary, diverting the write to the
// fallback store when the primary is unavailable.
func (g *Gateway) writeThrough(ctx context.Context, p *models.Profile) error {
	_, err := g.callPrimary(func() (interface{}, error) {
		return nil, g.primary.UpsertProfile(ctx, p)
	})
	if err == nil {
		return nil
	}
	if database.IsDuplicateKey(err) {
		return ErrEmailTaken
	}
	if !g.shouldFallBack(err) {
		return err
	}

	metrics.RecordFallbackWrite()
	logging.Ctx(ctx).Warn().Err(err).Msg("Primary store unavailable, writing profile to fallback")
	return g.fallback.Put(p)
}

// listThrough runs a primary list query, reconstructing the result from the
// fallback store's full scan when the primary is unavailable.
func (g *Gateway) listThrough(ctx context.Context,
	fromPrimary func() ([]*models.Profile, error),
	narrow func([]*models.Profile) []*models.Profile,
) ([]*models.Profile, error) {
	res, err := g.callPrimary(func() (interface{}, error) {
		return fromPrimary()
	})
	if err == nil {
		return res.([]*models.Profile), nil
	}
	if !g.shouldFallBack(err) {
		return nil, err
	}

	metrics.RecordFallbackRead()
	logging.Ctx(ctx).Warn().Err(err).Msg("Primary store unavailable, listing profiles from fallback")

	all, ferr := g.fallback.List()
	if ferr != nil {
		return nil, ferr
	}
	return narrow(all), nil
}

// opResult lets per-query failures pass through the breaker without counting
// against it; only unavailability-class errors trip the circuit.
type opResult struct {
	val interface{}
	err error
}

func (g *Gateway) callPrimary(fn func() (interface{}, error)) (interface{}, error) {
	out, err := g.breaker.execute(func() (interface{}, error) {
		val, opErr := fn()
		if opErr != nil && database.IsUnavailable(opErr) {
			return nil, opErr
		}
		return opResult{val: val, err: opErr}, nil
	})
	if err != nil {
		return nil, err
	}
	res := out.(opResult)
	return res.val, res.err
}

// shouldFallBack reports whether an error from the primary path means the
// fallback store should serve the operation.
func (g *Gateway) shouldFallBack(err error) bool {
	return database.IsUnavailable(err) || g.breaker.isRejection(err)
}

// mapEligible mirrors the primary store's map query for fallback data.
func mapEligible(p *models.Profile) bool {
	return !p.Privacy.AnonymousMode &&
		p.Privacy.ShowLocation &&
		p.Location != nil &&
		p.Location.IsVisible &&
		p.Location.Coordinates != nil
}

// filterProfiles mirrors the primary store's search query for fallback data.
func filterProfiles(all []*models.Profile, filter database.SearchFilter) []*models.Profile {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var matched []*models.Profile
	for _, p := range all {
		if p.Privacy.AnonymousMode {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Query)) {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Experience != "" && p.Experience != filter.Experience {
			continue
		}
		if filter.Focus != "" && !containsValue(p.PMFocus, filter.Focus) {
			continue
		}
		if filter.Industry != "" && !containsValue(p.Industry, filter.Industry) {
			continue
		}
		if filter.City != "" {
			if p.Location == nil || !strings.EqualFold(p.Location.City, filter.City) {
				continue
			}
		}
		matched = append(matched, p)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].LastActive.After(matched[j].LastActive)
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

func containsValue[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
