// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/pmatlas/pmatlas/internal/metrics"
	"github.com/pmatlas/pmatlas/internal/models"
)

// encodeList serializes a classification slice to its JSON column value.
// A nil slice is stored as an empty array, never as SQL NULL.
func encodeList[T any](list []T) (string, error) {
	if list == nil {
		return "[]", nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(b), nil
}

// decodeList parses a JSON column value back into a classification slice.
func decodeList[T any](raw string) ([]T, error) {
	if raw == "" {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

const profileColumns = `id, subject_id, email, name, avatar,
	status, experience, pm_focus, industry, company_stage, skills, interests,
	loc_country, loc_state, loc_city, loc_zip, loc_lat, loc_lng, loc_visible,
	show_location, show_experience, show_company, allow_connections, anonymous_mode,
	is_profile_complete, last_active, created_at, updated_at`

// rowScanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanProfile reads a full profile row in profileColumns order.
func scanProfile(row rowScanner) (*models.Profile, error) {
	var (
		p          models.Profile
		avatar     sql.NullString
		focusRaw   string
		indRaw     string
		stageRaw   string
		skillsRaw  string
		intsRaw    string
		locCountry sql.NullString
		locState   sql.NullString
		locCity    sql.NullString
		locZip     sql.NullString
		locLat     sql.NullFloat64
		locLng     sql.NullFloat64
		locVisible sql.NullBool
		lastActive sql.NullTime
	)

	err := row.Scan(
		&p.ID, &p.SubjectID, &p.Email, &p.Name, &avatar,
		&p.Status, &p.Experience, &focusRaw, &indRaw, &stageRaw, &skillsRaw, &intsRaw,
		&locCountry, &locState, &locCity, &locZip, &locLat, &locLng, &locVisible,
		&p.Privacy.ShowLocation, &p.Privacy.ShowExperience, &p.Privacy.ShowCompany,
		&p.Privacy.AllowConnections, &p.Privacy.AnonymousMode,
		&p.IsProfileComplete, &lastActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Avatar = avatar.String
	if lastActive.Valid {
		p.LastActive = lastActive.Time
	}

	if p.PMFocus, err = decodeList[models.Focus](focusRaw); err != nil {
		return nil, err
	}
	if p.Industry, err = decodeList[models.Industry](indRaw); err != nil {
		return nil, err
	}
	if p.CompanyStage, err = decodeList[models.CompanyStage](stageRaw); err != nil {
		return nil, err
	}
	if p.Skills, err = decodeList[models.Skill](skillsRaw); err != nil {
		return nil, err
	}
	if p.Interests, err = decodeList[models.Interest](intsRaw); err != nil {
		return nil, err
	}

	if locCountry.Valid || locCity.Valid || locState.Valid {
		loc := &models.Location{
			Country:   locCountry.String,
			State:     locState.String,
			City:      locCity.String,
			ZipCode:   locZip.String,
			IsVisible: locVisible.Bool,
		}
		if locLat.Valid && locLng.Valid {
			loc.Coordinates = &models.Coordinates{Lat: locLat.Float64, Lng: locLng.Float64}
		}
		p.Location = loc
	}

	return &p, nil
}

// profileLocationArgs flattens the optional location into column values.
func profileLocationArgs(p *models.Profile) (country, state, city, zip interface{}, lat, lng interface{}, visible bool) {
	if p.Location == nil {
		return nil, nil, nil, nil, nil, nil, true
	}
	loc := p.Location
	country, state, city, zip = loc.Country, loc.State, loc.City, loc.ZipCode
	if loc.Coordinates != nil {
		lat, lng = loc.Coordinates.Lat, loc.Coordinates.Lng
	}
	return country, state, city, zip, lat, lng, loc.IsVisible
}

// UpsertProfile inserts or replaces a profile keyed by subject_id. All mutable
// fields are written wholesale; created_at is preserved on conflict.
func (db *DB) UpsertProfile(ctx context.Context, p *models.Profile) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()

	focusRaw, err := encodeList(p.PMFocus)
	if err != nil {
		return err
	}
	indRaw, err := encodeList(p.Industry)
	if err != nil {
		return err
	}
	stageRaw, err := encodeList(p.CompanyStage)
	if err != nil {
		return err
	}
	skillsRaw, err := encodeList(p.Skills)
	if err != nil {
		return err
	}
	intsRaw, err := encodeList(p.Interests)
	if err != nil {
		return err
	}

	country, state, city, zip, lat, lng, visible := profileLocationArgs(p)

	query := `INSERT INTO profiles (
		id, subject_id, email, name, avatar,
		status, experience, pm_focus, industry, company_stage, skills, interests,
		loc_country, loc_state, loc_city, loc_zip, loc_lat, loc_lng, loc_visible,
		show_location, show_experience, show_company, allow_connections, anonymous_mode,
		is_profile_complete, last_active, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (subject_id) DO UPDATE SET
		email = EXCLUDED.email,
		name = EXCLUDED.name,
		avatar = EXCLUDED.avatar,
		status = EXCLUDED.status,
		experience = EXCLUDED.experience,
		pm_focus = EXCLUDED.pm_focus,
		industry = EXCLUDED.industry,
		company_stage = EXCLUDED.company_stage,
		skills = EXCLUDED.skills,
		interests = EXCLUDED.interests,
		loc_country = EXCLUDED.loc_country,
		loc_state = EXCLUDED.loc_state,
		loc_city = EXCLUDED.loc_city,
		loc_zip = EXCLUDED.loc_zip,
		loc_lat = EXCLUDED.loc_lat,
		loc_lng = EXCLUDED.loc_lng,
		loc_visible = EXCLUDED.loc_visible,
		show_location = EXCLUDED.show_location,
		show_experience = EXCLUDED.show_experience,
		show_company = EXCLUDED.show_company,
		allow_connections = EXCLUDED.allow_connections,
		anonymous_mode = EXCLUDED.anonymous_mode,
		is_profile_complete = EXCLUDED.is_profile_complete,
		last_active = EXCLUDED.last_active,
		updated_at = EXCLUDED.updated_at`

	_, err = db.execWithRetry(ctx, query,
		p.ID, p.SubjectID, p.Email, p.Name, nullableString(p.Avatar),
		string(p.Status), string(p.Experience), focusRaw, indRaw, stageRaw, skillsRaw, intsRaw,
		country, state, city, zip, lat, lng, visible,
		p.Privacy.ShowLocation, p.Privacy.ShowExperience, p.Privacy.ShowCompany,
		p.Privacy.AllowConnections, p.Privacy.AnonymousMode,
		p.IsProfileComplete, p.LastActive, p.CreatedAt, p.UpdatedAt,
	)
	metrics.RecordDBQuery("upsert", "profiles", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

// GetProfileBySubject retrieves the profile owned by an identity-provider subject.
// Returns ErrNotFound when no profile exists for the subject.
func (db *DB) GetProfileBySubject(ctx context.Context, subjectID string) (*models.Profile, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	query := fmt.Sprintf("SELECT %s FROM profiles WHERE subject_id = ?", profileColumns)
	p, err := scanProfile(db.conn.QueryRowContext(ctx, query, subjectID))
	metrics.RecordDBQuery("get_by_subject", "profiles", time.Since(start), ignoreNoRows(err))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by subject: %w", err)
	}
	return p, nil
}

// GetProfileByID retrieves a profile by its primary key.
// Returns ErrNotFound when no profile exists with the ID.
func (db *DB) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	query := fmt.Sprintf("SELECT %s FROM profiles WHERE id = ?", profileColumns)
	p, err := scanProfile(db.conn.QueryRowContext(ctx, query, id))
	metrics.RecordDBQuery("get_by_id", "profiles", time.Since(start), ignoreNoRows(err))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by id: %w", err)
	}
	return p, nil
}

// TouchLastActive stamps the profile's last_active timestamp.
func (db *DB) TouchLastActive(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx,
		"UPDATE profiles SET last_active = ? WHERE id = ?", at, id)
	if err != nil {
		return fmt.Errorf("failed to touch last_active: %w", err)
	}
	return nil
}

// ListMapProfiles returns all profiles eligible for map display: not
// anonymous, location sharing enabled on both the privacy settings and the
// location itself, and resolved coordinates present.
func (db *DB) ListMapProfiles(ctx context.Context) ([]*models.Profile, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	query := fmt.Sprintf(`SELECT %s FROM profiles
		WHERE anonymous_mode = FALSE
		  AND show_location = TRUE
		  AND loc_visible = TRUE
		  AND loc_lat IS NOT NULL
		  AND loc_lng IS NOT NULL`, profileColumns)

	rows, err := db.conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("list_map", "profiles", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query map profiles: %w", err)
	}
	defer closeQuietly(rows)

	var result []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan map profile: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating map profiles: %w", err)
	}

	return result, nil
}

// SearchFilter narrows member search results. Zero-valued fields are ignored.
type SearchFilter struct {
	Query      string
	Status     models.Status
	Experience models.Experience
	Focus      models.Focus
	Industry   models.Industry
	City       string
	Limit      int
}

// SearchProfiles finds non-anonymous members matching the filter, most
// recently active first. Limit defaults to 20.
func (db *DB) SearchProfiles(ctx context.Context, filter SearchFilter) ([]*models.Profile, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	conditions := []string{"anonymous_mode = FALSE"}
	var args []interface{}

	if filter.Query != "" {
		conditions = append(conditions, "name ILIKE '%' || ? || '%'")
		args = append(args, filter.Query)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Experience != "" {
		conditions = append(conditions, "experience = ?")
		args = append(args, string(filter.Experience))
	}
	if filter.Focus != "" {
		// JSON text containment on the encoded array
		conditions = append(conditions, `pm_focus LIKE '%"' || ? || '"%'`)
		args = append(args, string(filter.Focus))
	}
	if filter.Industry != "" {
		conditions = append(conditions, `industry LIKE '%"' || ? || '"%'`)
		args = append(args, string(filter.Industry))
	}
	if filter.City != "" {
		conditions = append(conditions, "loc_city ILIKE ?")
		args = append(args, filter.City)
	}

	query := fmt.Sprintf(`SELECT %s FROM profiles
		WHERE %s
		ORDER BY last_active DESC NULLS LAST
		LIMIT ?`, profileColumns, strings.Join(conditions, " AND "))
	args = append(args, limit)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("search", "profiles", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}
	defer closeQuietly(rows)

	var result []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	return result, nil
}

// nullableString maps empty strings to SQL NULL.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// ignoreNoRows filters sql.ErrNoRows out of metric error labels.
func ignoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
