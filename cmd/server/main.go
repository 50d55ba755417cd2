// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

// Package main is the entry point for the PMAtlas server.
//
// PMAtlas is a location-based professional network for product managers.
// Members maintain a profile (experience tier, job status, focus areas,
// industries), appear on a shared map at city-level precision, and exchange
// knowledge through a categorized forum and a curated resource library.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables over config file over defaults (Koanf v2)
//  2. Primary store: DuckDB for profiles, forum, resources, and connections
//  3. Fallback store: BadgerDB replica of profiles for primary outages
//  4. Persistence gateway: circuit breaker routing between the two stores
//  5. Authentication: RS256 JWT validation against the identity provider's JWKS
//  6. HTTP server: chi REST API under /api
//
// All long-running components run under a suture supervisor tree so a crash
// in background storage maintenance cannot take down the API.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest wins):
//   - Environment variables (PMATLAS_ prefix)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// For token validation:
//   - AUTH_ISSUER_URL: identity provider issuer (e.g. https://tenant.auth0.com/)
//   - AUTH_AUDIENCE: expected audience claim
//   - AUTH_DISABLED=true: local development only, injects a fixed identity
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops accepting
// new connections, waits up to 10s for in-flight requests, then closes both
// stores.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pmatlas/pmatlas/internal/api"
	"github.com/pmatlas/pmatlas/internal/auth"
	"github.com/pmatlas/pmatlas/internal/config"
	"github.com/pmatlas/pmatlas/internal/database"
	"github.com/pmatlas/pmatlas/internal/fallback"
	"github.com/pmatlas/pmatlas/internal/gateway"
	"github.com/pmatlas/pmatlas/internal/logging"
	"github.com/pmatlas/pmatlas/internal/supervisor"
	"github.com/pmatlas/pmatlas/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting PMAtlas")
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("fallback_path", cfg.Fallback.Path).
		Bool("auth_disabled", cfg.Auth.Disabled).
		Msg("Configuration loaded")

	// Primary store. An open failure here means the data directory itself is
	// broken, which the fallback cannot paper over.
	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize primary store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing primary store")
		}
	}()
	logging.Info().Msg("Primary store initialized")

	fb, err := fallback.Open(&cfg.Fallback)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open fallback store")
	}
	defer func() {
		if err := fb.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing fallback store")
		}
	}()
	logging.Info().Msg("Fallback store initialized")

	gw := gateway.New(db, fb)

	// Authentication. A nil validator is only acceptable in disabled mode.
	var validator *auth.TokenValidator
	if cfg.Auth.Disabled {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_DISABLED=true)")
		logging.Warn().Msg("  Every request runs as a fixed local development identity.")
		logging.Warn().Msg("  NEVER use this mode in production or on public networks!")
		logging.Warn().Msg("============================================================")
	} else {
		jwks := auth.NewJWKSCache(cfg.JWKSEndpoint(), nil, cfg.Auth.JWKSCacheTTL)
		validator = auth.NewTokenValidator(jwks, cfg.Auth.IssuerURL, cfg.Auth.Audience)
		logging.Info().
			Str("issuer", cfg.Auth.IssuerURL).
			Str("jwks", cfg.JWKSEndpoint()).
			Msg("JWT authentication enabled")
	}
	authmw := auth.NewMiddleware(validator, cfg.Auth.Disabled)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (RATE_LIMIT_DISABLED=true)")
	}

	router := api.NewRouter(
		api.NewHandlers(gw, db, cfg),
		api.NewChiMiddleware(&cfg.Security),
		authmw,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddStorageService(services.NewMaintenanceService(db, fb, 15*time.Minute))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
