// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package maprender

import (
	"strings"
	"testing"

	"github.com/pmatlas/pmatlas/internal/models"
)

func locatedProfile(id, name string) *models.Profile {
	return &models.Profile{
		ID:         id,
		Name:       name,
		Email:      strings.ToLower(name) + "@example.com",
		Status:     models.StatusEmployee,
		Experience: models.ExperienceSenior,
		PMFocus:    []models.Focus{models.FocusGrowth},
		Industry:   []models.Industry{models.IndustrySaaS},
		Location: &models.Location{
			Country:     "USA",
			State:       "CA",
			City:        "San Francisco",
			Coordinates: &models.Coordinates{Lat: 37.7749, Lng: -122.4194},
			IsVisible:   true,
		},
		Privacy: models.DefaultPrivacy(),
	}
}

func TestMarkerColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		experience models.Experience
		want       string
	}{
		{models.ExperienceIntern, ColorEntry},
		{models.ExperienceAssociate, ColorEntry},
		{models.ExperiencePM, ColorPM},
		{models.ExperienceSenior, ColorSenior},
		{models.ExperiencePrincipal, ColorPrincipal},
		{models.ExperienceDirector, ColorDirector},
		{models.Experience(""), ColorDefault},
		{models.Experience("cto"), ColorDefault},
	}

	for _, tt := range tests {
		if got := MarkerColor(tt.experience); got != tt.want {
			t.Errorf("MarkerColor(%q) = %q, want %q", tt.experience, got, tt.want)
		}
	}
}

func TestMarkerColorDependsOnTierAlone(t *testing.T) {
	t.Parallel()

	a := locatedProfile("a", "Alpha")
	b := locatedProfile("b", "Beta")
	b.Status = models.StatusJobSeeker
	b.Industry = []models.Industry{models.IndustryCrypto}

	if MarkerColor(a.Experience) != MarkerColor(b.Experience) {
		t.Error("Same tier must yield the same color regardless of other fields")
	}
}

func TestMarkerGlyph(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status models.Status
		want   string
	}{
		{models.StatusJobSeeker, GlyphSearch},
		{models.StatusEmployee, GlyphBriefcase},
		{models.StatusOpenToOffers, GlyphDoorOpen},
		{models.StatusHiringManager, GlyphMegaphone},
		{models.Status(""), GlyphDefault},
		{models.Status("retired"), GlyphDefault},
	}

	for _, tt := range tests {
		if got := MarkerGlyph(tt.status); got != tt.want {
			t.Errorf("MarkerGlyph(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestEligible(t *testing.T) {
	t.Parallel()

	t.Run("located profile is eligible", func(t *testing.T) {
		if !Eligible(locatedProfile("a", "Alpha")) {
			t.Error("Expected eligible")
		}
	})

	t.Run("nil profile", func(t *testing.T) {
		if Eligible(nil) {
			t.Error("nil profile must not be eligible")
		}
	})

	t.Run("no coordinates", func(t *testing.T) {
		p := locatedProfile("a", "Alpha")
		p.Location.Coordinates = nil
		if Eligible(p) {
			t.Error("Profile without coordinates must not be eligible")
		}
	})

	t.Run("location hidden", func(t *testing.T) {
		p := locatedProfile("a", "Alpha")
		p.Location.IsVisible = false
		if Eligible(p) {
			t.Error("Hidden location must not be eligible")
		}
	})

	t.Run("sharing disabled", func(t *testing.T) {
		p := locatedProfile("a", "Alpha")
		p.Privacy.ShowLocation = false
		if Eligible(p) {
			t.Error("Profile with location sharing off must not be eligible")
		}
	})
}

func TestBuildMarkersViewerFirstAndDeduped(t *testing.T) {
	t.Parallel()

	viewer := locatedProfile("viewer", "Viewer")
	other := locatedProfile("other", "Other")

	markers := BuildMarkers(viewer, []*models.Profile{other, viewer})

	if len(markers) != 2 {
		t.Fatalf("Expected 2 markers, got %d", len(markers))
	}
	if markers[0].ID != "viewer" || !markers[0].IsViewer {
		t.Errorf("Viewer must lead the marker list, got %q first", markers[0].ID)
	}
	if markers[1].ID != "other" || markers[1].IsViewer {
		t.Errorf("Second marker = %q isViewer=%v", markers[1].ID, markers[1].IsViewer)
	}
}

func TestBuildMarkersWithoutViewer(t *testing.T) {
	t.Parallel()

	other := locatedProfile("other", "Other")
	ineligible := locatedProfile("hidden", "Hidden")
	ineligible.Location.Coordinates = nil

	markers := BuildMarkers(nil, []*models.Profile{other, ineligible})

	if len(markers) != 1 {
		t.Fatalf("Expected 1 marker, got %d", len(markers))
	}
	if markers[0].IsViewer {
		t.Error("No viewer was supplied, marker must not claim to be the viewer")
	}
	if markers[0].Color != ColorSenior || markers[0].Glyph != GlyphBriefcase {
		t.Errorf("Encoding = %s/%s", markers[0].Color, markers[0].Glyph)
	}
}

func TestBuildInfoWindowSectionsAndCaps(t *testing.T) {
	t.Parallel()

	p := locatedProfile("a", "Alpha")
	p.PMFocus = []models.Focus{
		models.FocusTechnical, models.FocusGrowth, models.FocusData, models.FocusAIML,
	}
	p.Industry = []models.Industry{
		models.IndustrySaaS, models.IndustryFintech, models.IndustryGaming,
	}
	p.Interests = []models.Interest{
		models.InterestMentoring, models.InterestNetworking, models.InterestInvesting,
	}

	info := BuildInfoWindow(p)

	if info.Name != "Alpha" {
		t.Errorf("Name = %q", info.Name)
	}
	if info.Experience != "Senior PM" {
		t.Errorf("Experience = %q", info.Experience)
	}
	if info.Status != "Employed" {
		t.Errorf("Status = %q", info.Status)
	}
	if len(info.PMFocus) != 3 {
		t.Errorf("Focus areas capped at 3, got %d", len(info.PMFocus))
	}
	if len(info.Industries) != 2 {
		t.Errorf("Industries capped at 2, got %d", len(info.Industries))
	}
	if len(info.Interests) != 2 {
		t.Errorf("Interests capped at 2, got %d", len(info.Interests))
	}
	if info.Place != "San Francisco, CA" {
		t.Errorf("Place = %q", info.Place)
	}
}

func TestBuildInfoWindowOmitsEmptySections(t *testing.T) {
	t.Parallel()

	p := locatedProfile("a", "Alpha")
	p.Status = ""
	p.Experience = ""
	p.PMFocus = nil
	p.Industry = nil
	p.Interests = nil
	p.Location = nil

	info := BuildInfoWindow(p)

	if info.Experience != "" || info.Status != "" || info.Place != "" {
		t.Errorf("Expected empty sections, got %+v", info)
	}
	if info.PMFocus != nil || info.Industries != nil || info.Interests != nil {
		t.Errorf("Expected nil classification sections, got %+v", info)
	}
}

func TestBuildInfoWindowContactIntent(t *testing.T) {
	t.Parallel()

	t.Run("connections allowed", func(t *testing.T) {
		p := locatedProfile("a", "Alpha")
		info := BuildInfoWindow(p)

		if !strings.HasPrefix(info.ContactURL, "mailto:alpha@example.com?") {
			t.Errorf("ContactURL = %q", info.ContactURL)
		}
		if strings.Contains(info.ContactURL, "+") {
			t.Errorf("mailto URL must percent-encode spaces: %q", info.ContactURL)
		}
		if !strings.Contains(info.ContactURL, "subject=") || !strings.Contains(info.ContactURL, "body=") {
			t.Errorf("ContactURL missing prefilled fields: %q", info.ContactURL)
		}
	})

	t.Run("connections disabled", func(t *testing.T) {
		p := locatedProfile("a", "Alpha")
		p.Privacy.AllowConnections = false

		if info := BuildInfoWindow(p); info.ContactURL != "" {
			t.Errorf("ContactURL = %q, want empty", info.ContactURL)
		}
	})

	t.Run("plus sign in address survives", func(t *testing.T) {
		p := locatedProfile("a", "Alpha")
		p.Email = "alpha+pm@example.com"
		info := BuildInfoWindow(p)

		if !strings.HasPrefix(info.ContactURL, "mailto:alpha+pm@example.com?") {
			t.Errorf("ContactURL = %q, address must keep its literal plus", info.ContactURL)
		}
		query := info.ContactURL[strings.Index(info.ContactURL, "?")+1:]
		if strings.Contains(query, "+") {
			t.Errorf("Query portion must percent-encode spaces: %q", query)
		}
	})
}

func TestHaversine(t *testing.T) {
	t.Parallel()

	sf := models.Coordinates{Lat: 37.7749, Lng: -122.4194}
	la := models.Coordinates{Lat: 34.0522, Lng: -118.2437}

	if d := Haversine(sf, sf); d != 0 {
		t.Errorf("Distance to self = %v, want 0", d)
	}

	// San Francisco to Los Angeles is roughly 559 km.
	d := Haversine(sf, la)
	if d < 550 || d > 570 {
		t.Errorf("SF to LA = %v km, want ~559", d)
	}
	if back := Haversine(la, sf); back != d {
		t.Errorf("Distance not symmetric: %v vs %v", d, back)
	}
}

func TestWithinRadius(t *testing.T) {
	t.Parallel()

	sf := locatedProfile("sf", "SF PM")
	la := locatedProfile("la", "LA PM")
	la.Location.City = "Los Angeles"
	la.Location.Coordinates = &models.Coordinates{Lat: 34.0522, Lng: -118.2437}
	nowhere := locatedProfile("nowhere", "No Coords")
	nowhere.Location.Coordinates = nil

	center := models.Coordinates{Lat: 37.7749, Lng: -122.4194}
	profiles := []*models.Profile{sf, la, nowhere, nil}

	got := WithinRadius(profiles, center, 100)
	if len(got) != 1 || got[0].ID != "sf" {
		t.Fatalf("WithinRadius(100km) = %d profiles, want only sf", len(got))
	}

	got = WithinRadius(profiles, center, 600)
	if len(got) != 2 {
		t.Fatalf("WithinRadius(600km) = %d profiles, want sf and la", len(got))
	}
}
