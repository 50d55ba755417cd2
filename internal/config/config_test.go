// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Defaults alone fail auth validation because no issuer is set.
	// Disable auth to exercise the rest of the defaults.
	t.Setenv("AUTH_DISABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with defaults failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %s", cfg.Server.Timeout)
	}
	if cfg.Database.Path != "/data/pmatlas.duckdb" {
		t.Errorf("Unexpected default database path %q", cfg.Database.Path)
	}
	if cfg.API.DefaultPageSize != 20 || cfg.API.MaxPageSize != 100 {
		t.Errorf("Unexpected default page sizes %d/%d", cfg.API.DefaultPageSize, cfg.API.MaxPageSize)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Unexpected default logging %q/%q", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DUCKDB_PATH", "/tmp/test.duckdb")
	t.Setenv("AUTH_ISSUER_URL", "https://login.example.com/")
	t.Setenv("AUTH_AUDIENCE", "https://api.pmatlas.example.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/test.duckdb" {
		t.Errorf("Expected overridden database path, got %q", cfg.Database.Path)
	}
	if cfg.Auth.IssuerURL != "https://login.example.com/" {
		t.Errorf("Expected issuer override, got %q", cfg.Auth.IssuerURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %q", cfg.Logging.Level)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != "https://app.example.com" {
		t.Errorf("Expected comma-separated CORS origins parsed, got %v", cfg.Security.CORSOrigins)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 7070
auth:
  issuer_url: https://idp.example.com
  audience: pmatlas-api
logging:
  level: warn
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Expected port 7070 from file, got %d", cfg.Server.Port)
	}
	if cfg.Auth.Audience != "pmatlas-api" {
		t.Errorf("Expected audience from file, got %q", cfg.Auth.Audience)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected log level warn from file, got %q", cfg.Logging.Level)
	}
	// Defaults still apply for untouched sections
	if cfg.API.DefaultPageSize != 20 {
		t.Errorf("Expected default page size 20, got %d", cfg.API.DefaultPageSize)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 7070\nauth:\n  issuer_url: https://idp.example.com\n  audience: pmatlas-api\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("HTTP_PORT", "6060")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 6060 {
		t.Errorf("Expected env to beat file, got port %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() *Config {
		cfg := defaultConfig()
		cfg.Auth.IssuerURL = "https://idp.example.com"
		cfg.Auth.Audience = "pmatlas-api"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"auth disabled in development", func(c *Config) {
			c.Auth.Disabled = true
			c.Auth.IssuerURL = ""
			c.Auth.Audience = ""
		}, false},
		{"auth disabled in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Auth.Disabled = true
		}, true},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"negative timeout", func(c *Config) { c.Server.Timeout = -time.Second }, true},
		{"unknown environment", func(c *Config) { c.Server.Environment = "staging" }, true},
		{"empty database path", func(c *Config) { c.Database.Path = "" }, true},
		{"missing issuer", func(c *Config) { c.Auth.IssuerURL = "" }, true},
		{"relative issuer", func(c *Config) { c.Auth.IssuerURL = "idp.example.com" }, true},
		{"http issuer in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Auth.IssuerURL = "http://idp.example.com"
		}, true},
		{"http issuer in development", func(c *Config) {
			c.Auth.IssuerURL = "http://localhost:3001"
		}, false},
		{"missing audience", func(c *Config) { c.Auth.Audience = "" }, true},
		{"zero jwks ttl", func(c *Config) { c.Auth.JWKSCacheTTL = 0 }, true},
		{"max below default page size", func(c *Config) { c.API.MaxPageSize = 10 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "text" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}

func TestJWKSEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		issuer string
		jwks   string
		want   string
	}{
		{"derived from issuer", "https://idp.example.com", "", "https://idp.example.com/.well-known/jwks.json"},
		{"trailing slash trimmed", "https://idp.example.com/", "", "https://idp.example.com/.well-known/jwks.json"},
		{"explicit url wins", "https://idp.example.com", "https://keys.example.com/jwks", "https://keys.example.com/jwks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			cfg.Auth.IssuerURL = tt.issuer
			cfg.Auth.JWKSURL = tt.jwks
			if got := cfg.JWKSEndpoint(); got != tt.want {
				t.Errorf("JWKSEndpoint() = %q, want %q", got, tt.want)
			}
		})
	}
}
