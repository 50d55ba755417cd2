// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

// Package models defines the data structures shared across the PMAtlas
// application: member profiles, forum posts, curated resources, connection
// requests, and the standard API response envelope.
package models

import "time"

// Coordinates is a geographic point in WGS84.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location describes where a member is based. Coordinates are resolved from
// the static geocode table when the member provides city and state without an
// explicit point.
type Location struct {
	Country     string       `json:"country"`
	State       string       `json:"state,omitempty"`
	City        string       `json:"city"`
	ZipCode     string       `json:"zipCode,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	IsVisible   bool         `json:"isVisible"`
}

// PrivacySettings are independent visibility toggles. AnonymousMode suppresses
// the profile from all public surfaces regardless of the other flags.
type PrivacySettings struct {
	ShowLocation     bool `json:"showLocation"`
	ShowExperience   bool `json:"showExperience"`
	ShowCompany      bool `json:"showCompany"`
	AllowConnections bool `json:"allowConnections"`
	AnonymousMode    bool `json:"anonymousMode"`
}

// DefaultPrivacy returns the privacy settings applied to newly provisioned
// profiles: everything visible, anonymous mode off.
func DefaultPrivacy() PrivacySettings {
	return PrivacySettings{
		ShowLocation:     true,
		ShowExperience:   true,
		ShowCompany:      true,
		AllowConnections: true,
		AnonymousMode:    false,
	}
}

// Profile is the canonical member record, one per identity-provider subject.
//
// Classification fields are closed enumerations (see enums.go). The
// IsProfileComplete flag is derived server-side on every update and never
// accepted from clients.
type Profile struct {
	ID        string `json:"id"`
	SubjectID string `json:"subjectId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar,omitempty"`

	Status       Status         `json:"status,omitempty"`
	Experience   Experience     `json:"experience,omitempty"`
	PMFocus      []Focus        `json:"pmFocus"`
	Industry     []Industry     `json:"industry"`
	CompanyStage []CompanyStage `json:"companyStage"`
	Skills       []Skill        `json:"skills"`
	Interests    []Interest     `json:"interests"`

	Location *Location       `json:"location,omitempty"`
	Privacy  PrivacySettings `json:"privacy"`

	IsProfileComplete bool      `json:"isProfileComplete"`
	LastActive        time.Time `json:"lastActive"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ComputeComplete reports whether the profile has enough classification data
// for onboarding: status and experience set, pmFocus and industry non-empty.
func (p *Profile) ComputeComplete() bool {
	return p.Status != "" &&
		p.Experience != "" &&
		len(p.PMFocus) > 0 &&
		len(p.Industry) > 0
}

// ProfilePatch is a partial profile update. Nil fields are left untouched;
// non-nil object-valued fields (Location, Privacy) replace the stored value
// wholesale rather than deep-merging.
type ProfilePatch struct {
	Status       *Status          `json:"status,omitempty"`
	Experience   *Experience      `json:"experience,omitempty"`
	PMFocus      []Focus          `json:"pmFocus,omitempty"`
	Industry     []Industry       `json:"industry,omitempty"`
	CompanyStage []CompanyStage   `json:"companyStage,omitempty"`
	Skills       []Skill          `json:"skills,omitempty"`
	Interests    []Interest       `json:"interests,omitempty"`
	Location     *Location        `json:"location,omitempty"`
	Privacy      *PrivacySettings `json:"privacy,omitempty"`
}

// Apply merges the patch into the profile. Slices and objects provided in the
// patch replace the stored values; absent fields are preserved. Completeness
// is recomputed from the merged result.
func (patch *ProfilePatch) Apply(p *Profile) {
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Experience != nil {
		p.Experience = *patch.Experience
	}
	if patch.PMFocus != nil {
		p.PMFocus = patch.PMFocus
	}
	if patch.Industry != nil {
		p.Industry = patch.Industry
	}
	if patch.CompanyStage != nil {
		p.CompanyStage = patch.CompanyStage
	}
	if patch.Skills != nil {
		p.Skills = patch.Skills
	}
	if patch.Interests != nil {
		p.Interests = patch.Interests
	}
	if patch.Location != nil {
		p.Location = patch.Location
	}
	if patch.Privacy != nil {
		p.Privacy = *patch.Privacy
	}
	p.IsProfileComplete = p.ComputeComplete()
}

// MapProfile is the reduced projection returned by the map endpoint.
type MapProfile struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Avatar      string       `json:"avatar,omitempty"`
	Status      Status       `json:"status,omitempty"`
	Experience  Experience   `json:"experience,omitempty"`
	PMFocus     []Focus      `json:"pmFocus"`
	City        string       `json:"city,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// SearchProfile is the reduced projection returned by the search endpoint.
type SearchProfile struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Avatar     string     `json:"avatar,omitempty"`
	Status     Status     `json:"status,omitempty"`
	Experience Experience `json:"experience,omitempty"`
	PMFocus    []Focus    `json:"pmFocus"`
	Industry   []Industry `json:"industry"`
	City       string     `json:"city,omitempty"`
}

// PublicProfile is the projection for GET /api/users/{id}: the full profile
// minus identity, email, and privacy internals.
type PublicProfile struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Avatar       string         `json:"avatar,omitempty"`
	Status       Status         `json:"status,omitempty"`
	Experience   Experience     `json:"experience,omitempty"`
	PMFocus      []Focus        `json:"pmFocus"`
	Industry     []Industry     `json:"industry"`
	CompanyStage []CompanyStage `json:"companyStage"`
	Skills       []Skill        `json:"skills"`
	Interests    []Interest     `json:"interests"`
	Location     *Location      `json:"location,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// Public strips identity and privacy fields for third-party viewing.
func (p *Profile) Public() *PublicProfile {
	return &PublicProfile{
		ID:           p.ID,
		Name:         p.Name,
		Avatar:       p.Avatar,
		Status:       p.Status,
		Experience:   p.Experience,
		PMFocus:      p.PMFocus,
		Industry:     p.Industry,
		CompanyStage: p.CompanyStage,
		Skills:       p.Skills,
		Interests:    p.Interests,
		Location:     p.Location,
		CreatedAt:    p.CreatedAt,
	}
}
