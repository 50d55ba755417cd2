// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// tableCreationQueries returns the table creation SQL statements.
// Multi-valued classification fields (pm_focus, industry, skills, interests,
// tags) are stored as JSON text to keep the row layout flat and scannable.
func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY,
			subject_id TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			avatar TEXT,

			status TEXT DEFAULT '',
			experience TEXT DEFAULT '',
			pm_focus TEXT DEFAULT '[]',
			industry TEXT DEFAULT '[]',
			company_stage TEXT DEFAULT '[]',
			skills TEXT DEFAULT '[]',
			interests TEXT DEFAULT '[]',

			loc_country TEXT,
			loc_state TEXT,
			loc_city TEXT,
			loc_zip TEXT,
			loc_lat DOUBLE,
			loc_lng DOUBLE,
			loc_visible BOOLEAN DEFAULT TRUE,

			show_location BOOLEAN DEFAULT TRUE,
			show_experience BOOLEAN DEFAULT TRUE,
			show_company BOOLEAN DEFAULT TRUE,
			allow_connections BOOLEAN DEFAULT TRUE,
			anonymous_mode BOOLEAN DEFAULT FALSE,

			is_profile_complete BOOLEAN DEFAULT FALSE,
			last_active TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS forum_posts (
			id UUID PRIMARY KEY,
			author_id UUID NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			category TEXT NOT NULL,
			tags TEXT DEFAULT '[]',
			upvotes INTEGER DEFAULT 0,
			downvotes INTEGER DEFAULT 0,
			view_count INTEGER DEFAULT 0,
			is_pinned BOOLEAN DEFAULT FALSE,
			is_locked BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS forum_comments (
			id UUID PRIMARY KEY,
			post_id UUID NOT NULL,
			author_id UUID NOT NULL,
			parent_id UUID,
			content TEXT NOT NULL,
			upvotes INTEGER DEFAULT 0,
			downvotes INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS resources (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			url TEXT NOT NULL,
			category TEXT NOT NULL,
			resource_type TEXT NOT NULL,
			submitted_by UUID NOT NULL,
			rating DOUBLE DEFAULT 0,
			review_count INTEGER DEFAULT 0,
			tags TEXT DEFAULT '[]',
			is_verified BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS connections (
			id UUID PRIMARY KEY,
			requester_id UUID NOT NULL,
			recipient_id UUID NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			message TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (requester_id, recipient_id)
		)`,
	}
}

// createIndexes creates indexes for frequently filtered columns
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_profiles_subject ON profiles (subject_id)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_map ON profiles (anonymous_mode, show_location, loc_visible)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_category ON forum_posts (category)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_created ON forum_posts (created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post ON forum_comments (post_id)`,
		`CREATE INDEX IF NOT EXISTS idx_resources_category ON resources (category)`,
		`CREATE INDEX IF NOT EXISTS idx_connections_recipient ON connections (recipient_id, status)`,
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}

	return nil
}
