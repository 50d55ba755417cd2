// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pmatlas/pmatlas/internal/metrics"
)

// Token validation failures surfaced to the middleware.
var (
	ErrNoCredentials      = errors.New("no credentials provided")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExpiredCredentials = errors.New("expired credentials")
)

// Claims carries the identity-provider claims the application consumes.
type Claims struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// TokenValidator validates RS256 bearer tokens against the provider's
// published signing keys with a pinned issuer and audience.
type TokenValidator struct {
	jwks     *JWKSCache
	issuer   string
	audience string
	parser   *jwt.Parser
}

// NewTokenValidator creates a validator bound to one issuer and audience.
func NewTokenValidator(jwks *JWKSCache, issuer, audience string) *TokenValidator {
	return &TokenValidator{
		jwks:     jwks,
		issuer:   issuer,
		audience: audience,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"RS256"}),
			jwt.WithIssuer(issuer),
			jwt.WithAudience(audience),
			jwt.WithExpirationRequired(),
		),
	}
}

// Validate parses and verifies a bearer token, returning its claims.
func (v *TokenValidator) Validate(ctx context.Context, tokenStr string) (*Claims, error) {
	token, err := v.parser.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		kidVal, ok := token.Header["kid"]
		if !ok {
			return nil, errors.New("token missing kid header")
		}
		kid, ok := kidVal.(string)
		if !ok {
			return nil, errors.New("token kid header is not a string")
		}

		key, err := v.jwks.GetKey(ctx, kid)
		if err != nil {
			return nil, fmt.Errorf("failed to get key for kid %s: %w", kid, err)
		}
		return key, nil
	})
	if err != nil {
		metrics.RecordTokenValidation(false)
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredentials
		}
		return nil, ErrInvalidCredentials
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		metrics.RecordTokenValidation(false)
		return nil, ErrInvalidCredentials
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		metrics.RecordTokenValidation(false)
		return nil, ErrInvalidCredentials
	}

	claims := &Claims{Subject: sub}
	claims.Email, _ = mapClaims["email"].(string)
	claims.Name, _ = mapClaims["name"].(string)
	claims.Picture, _ = mapClaims["picture"].(string)

	metrics.RecordTokenValidation(true)
	return claims, nil
}
