// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/pmatlas/pmatlas/internal/metrics"
	"github.com/pmatlas/pmatlas/internal/models"
)

// CreateResource stores a submitted resource.
func (db *DB) CreateResource(ctx context.Context, r *models.Resource) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tagsRaw, err := encodeList(r.Tags)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, `INSERT INTO resources (
		id, title, description, url, category, resource_type,
		submitted_by, rating, review_count, tags, is_verified, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Title, r.Description, r.URL, string(r.Category), string(r.Type),
		r.SubmittedBy, r.Rating, r.ReviewCount, tagsRaw, r.IsVerified, r.CreatedAt,
	)
	metrics.RecordDBQuery("insert", "resources", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

// ListResources returns resources, optionally narrowed to one category,
// newest first.
func (db *DB) ListResources(ctx context.Context, category models.ResourceCategory) ([]*models.Resource, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT id, title, description, url, category, resource_type,
		submitted_by, rating, review_count, tags, is_verified, created_at
		FROM resources`
	var args []interface{}
	if category != "" {
		query += " WHERE category = ?"
		args = append(args, string(category))
	}
	query += " ORDER BY created_at DESC"

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("list", "resources", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer closeQuietly(rows)

	var result []*models.Resource
	for rows.Next() {
		var r models.Resource
		var tagsRaw string
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.URL, &r.Category, &r.Type,
			&r.SubmittedBy, &r.Rating, &r.ReviewCount, &tagsRaw, &r.IsVerified, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		if r.Tags, err = decodeList[string](tagsRaw); err != nil {
			return nil, err
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resources: %w", err)
	}

	return result, nil
}
