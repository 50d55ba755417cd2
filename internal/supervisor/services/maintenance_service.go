// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package services

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/pmatlas/pmatlas/internal/logging"
)

// Checkpointer flushes the primary store's WAL into its main file.
// Satisfied by *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// GCStore reclaims space in the fallback store's value log.
// Satisfied by *fallback.Store.
type GCStore interface {
	RunGC(discardRatio float64) error
}

// MaintenanceService periodically checkpoints the primary DuckDB file and
// runs Badger value log GC on the fallback store. Failures are logged, not
// returned, so a flaky disk does not put the service into restart backoff.
type MaintenanceService struct {
	primary  Checkpointer
	fallback GCStore
	interval time.Duration
	name     string
}

// NewMaintenanceService creates the maintenance loop. Either store may be
// nil, in which case its half of the work is skipped.
func NewMaintenanceService(primary Checkpointer, fallback GCStore, interval time.Duration) *MaintenanceService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &MaintenanceService{
		primary:  primary,
		fallback: fallback,
		interval: interval,
		name:     "storage-maintenance",
	}
}

// Serve implements suture.Service.
func (m *MaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.runOnce(ctx)
		}
	}
}

func (m *MaintenanceService) runOnce(ctx context.Context) {
	if m.primary != nil {
		if err := m.primary.Checkpoint(ctx); err != nil {
			logging.Err(err).Msg("Primary store checkpoint failed")
		}
	}
	if m.fallback != nil {
		// Badger recommends repeating GC while it keeps finding work.
		for {
			err := m.fallback.RunGC(0.5)
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			if err != nil {
				logging.Err(err).Msg("Fallback store value log GC failed")
				break
			}
		}
	}
}

// String implements fmt.Stringer for supervisor log messages.
func (m *MaintenanceService) String() string {
	return m.name
}
