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
	"time"

	"github.com/pmatlas/pmatlas/internal/metrics"
	"github.com/pmatlas/pmatlas/internal/models"
)

// ErrDuplicateConnection is returned when a connection request between the
// same requester and recipient already exists.
var ErrDuplicateConnection = errors.New("connection request already exists")

// CreateConnection stores a new connection request. The (requester, recipient)
// pair is unique; repeat requests return ErrDuplicateConnection.
func (db *DB) CreateConnection(ctx context.Context, c *models.Connection) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `INSERT INTO connections (
		id, requester_id, recipient_id, status, message, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.RequesterID, c.RecipientID, string(c.Status),
		nullableString(c.Message), c.CreatedAt, c.UpdatedAt,
	)
	metrics.RecordDBQuery("insert", "connections", time.Since(start), err)
	if err != nil {
		if IsDuplicateKey(err) {
			return ErrDuplicateConnection
		}
		return fmt.Errorf("failed to create connection: %w", err)
	}
	return nil
}

// UpdateConnectionStatus transitions a connection request. Only the recipient
// may act on a pending request, which the caller enforces.
// Returns ErrNotFound when the connection does not exist.
func (db *DB) UpdateConnectionStatus(ctx context.Context, id string, status models.ConnectionStatus, at time.Time) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		"UPDATE connections SET status = ?, updated_at = ? WHERE id = ?",
		string(status), at, id)
	metrics.RecordDBQuery("update", "connections", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to update connection: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetConnection retrieves a connection request by ID.
// Returns ErrNotFound when it does not exist.
func (db *DB) GetConnection(ctx context.Context, id string) (*models.Connection, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var c models.Connection
	var message sql.NullString
	err := db.conn.QueryRowContext(ctx, `SELECT id, requester_id, recipient_id,
		status, message, created_at, updated_at
		FROM connections WHERE id = ?`, id).Scan(
		&c.ID, &c.RequesterID, &c.RecipientID, &c.Status, &message,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	c.Message = message.String
	return &c, nil
}

// ListConnections returns all connection requests involving the member,
// either side, newest first.
func (db *DB) ListConnections(ctx context.Context, profileID string) ([]*models.Connection, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `SELECT id, requester_id, recipient_id,
		status, message, created_at, updated_at
		FROM connections
		WHERE requester_id = ? OR recipient_id = ?
		ORDER BY created_at DESC`, profileID, profileID)
	metrics.RecordDBQuery("list", "connections", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}
	defer closeQuietly(rows)

	var result []*models.Connection
	for rows.Next() {
		var c models.Connection
		var message sql.NullString
		if err := rows.Scan(&c.ID, &c.RequesterID, &c.RecipientID, &c.Status, &message,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		c.Message = message.String
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating connections: %w", err)
	}

	return result, nil
}
