// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

// Package maprender derives the map marker encoding served by the users/map
// endpoint: marker color from experience tier, glyph from employment status,
// and the info window content a client renders on marker activation.
package maprender

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/pmatlas/pmatlas/internal/models"
)

// Marker colors by experience tier. Intern and associate share the entry
// color; every other tier gets its own.
const (
	ColorEntry     = "#22C55E"
	ColorPM        = "#3B82F6"
	ColorSenior    = "#8B5CF6"
	ColorPrincipal = "#F59E0B"
	ColorDirector  = "#EF4444"
	ColorDefault   = "#6B7280"
)

// Marker glyphs by employment status. Names are icon identifiers the client
// maps to its icon set.
const (
	GlyphSearch    = "search"
	GlyphBriefcase = "briefcase"
	GlyphDoorOpen  = "door-open"
	GlyphMegaphone = "megaphone"
	GlyphDefault   = "map-pin"
)

// Marker is one renderable map pin with its visual encoding and the
// pre-composed detail view.
type Marker struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Avatar      string             `json:"avatar,omitempty"`
	Coordinates models.Coordinates `json:"coordinates"`
	Color       string             `json:"color"`
	Glyph       string             `json:"glyph"`
	IsViewer    bool               `json:"isViewer,omitempty"`
	Info        InfoWindow         `json:"info"`
}

// InfoWindow is the detail view shown on marker activation. Empty fields are
// omitted so the client renders only populated sections.
type InfoWindow struct {
	Name       string   `json:"name"`
	Experience string   `json:"experience,omitempty"`
	Status     string   `json:"status,omitempty"`
	PMFocus    []string `json:"pmFocus,omitempty"`
	Industries []string `json:"industries,omitempty"`
	Interests  []string `json:"interests,omitempty"`
	Place      string   `json:"place,omitempty"`
	ContactURL string   `json:"contactUrl,omitempty"`
}

// MarkerColor maps an experience tier to its marker color. The color depends
// on the tier alone.
func MarkerColor(e models.Experience) string {
	switch e {
	case models.ExperienceIntern, models.ExperienceAssociate:
		return ColorEntry
	case models.ExperiencePM:
		return ColorPM
	case models.ExperienceSenior:
		return ColorSenior
	case models.ExperiencePrincipal:
		return ColorPrincipal
	case models.ExperienceDirector:
		return ColorDirector
	}
	return ColorDefault
}

// MarkerGlyph maps an employment status to its marker glyph. The glyph
// depends on the status alone.
func MarkerGlyph(s models.Status) string {
	switch s {
	case models.StatusJobSeeker:
		return GlyphSearch
	case models.StatusEmployee:
		return GlyphBriefcase
	case models.StatusOpenToOffers:
		return GlyphDoorOpen
	case models.StatusHiringManager:
		return GlyphMegaphone
	}
	return GlyphDefault
}

// Eligible reports whether a profile can appear on the map: it needs a
// resolved coordinate, a visible location, and location sharing enabled.
func Eligible(p *models.Profile) bool {
	return p != nil &&
		p.Privacy.ShowLocation &&
		p.Location != nil &&
		p.Location.IsVisible &&
		p.Location.Coordinates != nil
}

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two points.
func Haversine(a, b models.Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// WithinRadius keeps profiles whose coordinates fall within radiusKm of the
// center. Profiles without a resolved coordinate never match.
func WithinRadius(profiles []*models.Profile, center models.Coordinates, radiusKm float64) []*models.Profile {
	out := make([]*models.Profile, 0, len(profiles))
	for _, p := range profiles {
		if p == nil || p.Location == nil || p.Location.Coordinates == nil {
			continue
		}
		if Haversine(center, *p.Location.Coordinates) <= radiusKm {
			out = append(out, p)
		}
	}
	return out
}

// BuildMarkers renders one marker per eligible profile. The viewer's own
// profile, when eligible, leads the result and is removed from the general
// collection so it never appears twice.
func BuildMarkers(viewer *models.Profile, profiles []*models.Profile) []Marker {
	markers := make([]Marker, 0, len(profiles)+1)

	viewerID := ""
	if Eligible(viewer) {
		viewerID = viewer.ID
		m := buildMarker(viewer)
		m.IsViewer = true
		markers = append(markers, m)
	}

	for _, p := range profiles {
		if !Eligible(p) || p.ID == viewerID {
			continue
		}
		markers = append(markers, buildMarker(p))
	}
	return markers
}

func buildMarker(p *models.Profile) Marker {
	return Marker{
		ID:          p.ID,
		Name:        p.Name,
		Avatar:      p.Avatar,
		Coordinates: *p.Location.Coordinates,
		Color:       MarkerColor(p.Experience),
		Glyph:       MarkerGlyph(p.Status),
		Info:        BuildInfoWindow(p),
	}
}

// BuildInfoWindow composes the marker detail view. Classification sections
// are capped (3 focus areas, 2 industries, 2 interests) and the contact
// action is included only when the member accepts connections.
func BuildInfoWindow(p *models.Profile) InfoWindow {
	info := InfoWindow{Name: p.Name}

	if p.Experience != "" {
		info.Experience = p.Experience.Label()
	}
	if p.Status != "" {
		info.Status = p.Status.Label()
	}

	info.PMFocus = stringValues(p.PMFocus, 3)
	info.Industries = stringValues(p.Industry, 2)
	info.Interests = stringValues(p.Interests, 2)
	info.Place = placeLine(p.Location)

	if p.Privacy.AllowConnections && p.Email != "" {
		info.ContactURL = contactMailto(p.Email, p.Name)
	}
	return info
}

func stringValues[T ~string](values []T, max int) []string {
	if len(values) == 0 {
		return nil
	}
	if len(values) > max {
		values = values[:max]
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// placeLine renders "City, State" with either part optional.
func placeLine(loc *models.Location) string {
	if loc == nil {
		return ""
	}
	switch {
	case loc.City != "" && loc.State != "":
		return loc.City + ", " + loc.State
	case loc.City != "":
		return loc.City
	default:
		return loc.State
	}
}

// contactMailto builds a pre-filled message intent addressed to the member.
// Spaces in the query are percent-encoded because mail clients do not decode
// '+'; the address itself is left untouched so a literal '+' in the local
// part survives.
func contactMailto(email, name string) string {
	q := url.Values{}
	q.Set("subject", "Connecting via PMAtlas")
	q.Set("body", fmt.Sprintf("Hi %s,\n\nI found your profile on PMAtlas and would like to connect.\n", name))
	query := strings.ReplaceAll(q.Encode(), "+", "%20")

	u := url.URL{Scheme: "mailto", Opaque: email}
	return u.String() + "?" + query
}
