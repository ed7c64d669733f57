// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/canonical/notes-service/internal/logging"
	"github.com/canonical/notes-service/internal/monitoring"
	"github.com/canonical/notes-service/internal/tracing"
	"github.com/canonical/notes-service/internal/types"
)

// Token verification failures, distinguishable by the caller.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
)

// Claims is the identity assertion payload. Tokens are stateless: valid
// until expiry, with no server side revocation.
type Claims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	TenantID string `json:"tenantId"`
	jwt.RegisteredClaims
}

var _ TokenCodecInterface = (*TokenCodec)(nil)

// TokenCodec signs and verifies HS256 identity assertions.
type TokenCodec struct {
	secret   []byte
	lifetime time.Duration

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewTokenCodec(secret []byte, lifetime time.Duration, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *TokenCodec {
	return &TokenCodec{
		secret:   secret,
		lifetime: lifetime,
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}

// IssueToken signs an assertion for the principal with the configured expiry.
func (c *TokenCodec) IssueToken(ctx context.Context, principal *types.Principal) (string, error) {
	_, span := c.tracer.Start(ctx, "authentication.TokenCodec.IssueToken")
	defer span.End()

	now := time.Now()
	claims := Claims{
		UserID:   principal.UserID,
		Email:    principal.Email,
		Role:     principal.Role,
		TenantID: principal.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// VerifyToken checks signature and expiry and returns the embedded principal.
func (c *TokenCodec) VerifyToken(ctx context.Context, rawToken string) (*types.Principal, error) {
	_, span := c.tracer.Start(ctx, "authentication.TokenCodec.VerifyToken")
	defer span.End()

	claims := new(Claims)
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}

	if !token.Valid {
		return nil, ErrTokenSignatureInvalid
	}

	if claims.UserID == "" || claims.TenantID == "" {
		return nil, fmt.Errorf("%w: missing identity claims", ErrTokenMalformed)
	}

	return &types.Principal{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Role:     claims.Role,
		TenantID: claims.TenantID,
	}, nil
}
