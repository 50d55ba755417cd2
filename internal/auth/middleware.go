// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/pmatlas/pmatlas/internal/logging"
	"github.com/pmatlas/pmatlas/internal/models"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// devClaims is the synthetic identity used when authentication is disabled
// for local development.
var devClaims = Claims{
	Subject: "dev|local",
	Email:   "dev@localhost",
	Name:    "Local Developer",
}

// Middleware guards API routes behind bearer token validation.
type Middleware struct {
	validator *TokenValidator
	disabled  bool
}

// NewMiddleware creates the auth middleware. With disabled set, every request
// passes with a synthetic local identity; config validation rejects that mode
// in production.
func NewMiddleware(validator *TokenValidator, disabled bool) *Middleware {
	return &Middleware{validator: validator, disabled: disabled}
}

// RequireAuth rejects requests without a valid bearer token and injects the
// token's claims into the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), &devClaims)))
			return
		}

		tokenStr := extractBearer(r)
		if tokenStr == "" {
			unauthorized(w, "Authentication required")
			return
		}

		claims, err := m.validator.Validate(r.Context(), tokenStr)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Rejected bearer token")
			if err == ErrExpiredCredentials {
				unauthorized(w, "Token expired")
			} else {
				unauthorized(w, "Invalid token")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// extractBearer pulls the token out of the Authorization header.
func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// unauthorized writes the standard 401 envelope.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    models.CodeAuthRequired,
			Message: message,
		},
	})
}

// ContextWithClaims stores validated claims on the context.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// FromContext retrieves the validated claims injected by RequireAuth.
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}
