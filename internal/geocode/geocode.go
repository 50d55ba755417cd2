// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

// Package geocode resolves member locations to map coordinates from a static
// lookup table, so profile placement never depends on an external geocoding
// service.
//
// Resolution is two-tier: a city listed under its state resolves to the
// city's coordinate; a state without a matching city entry resolves to the
// state's center. Lookups never fail with an error; an unknown state simply
// yields no coordinate.
package geocode

import (
	"strings"

	"github.com/pmatlas/pmatlas/internal/models"
)

// Resolve returns the representative coordinate for a (city, state) pair.
//
// The city sub-table of the state is consulted first; a miss falls back to
// the state center. ok is false only when the state itself is unknown.
// City matching is case- and whitespace-insensitive.
func Resolve(city, state string) (models.Coordinates, bool) {
	entry, found := stateTable[normalizeState(state)]
	if !found {
		return models.Coordinates{}, false
	}

	if c, found := entry.cities[normalizeCity(city)]; found {
		return c, true
	}
	return entry.center, true
}

// ResolveState returns the center coordinate for a state/province code.
func ResolveState(state string) (models.Coordinates, bool) {
	entry, found := stateTable[normalizeState(state)]
	if !found {
		return models.Coordinates{}, false
	}
	return entry.center, true
}

// HasCity reports whether the city has its own entry under the state.
func HasCity(city, state string) bool {
	entry, found := stateTable[normalizeState(state)]
	if !found {
		return false
	}
	_, found = entry.cities[normalizeCity(city)]
	return found
}

func normalizeState(state string) string {
	return strings.ToUpper(strings.TrimSpace(state))
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
