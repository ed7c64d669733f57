// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/canonical/notes-service/internal/logging"
	"github.com/canonical/notes-service/internal/monitoring"
	"github.com/canonical/notes-service/internal/tracing"
	"github.com/canonical/notes-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package authentication -destination ./mock_authentication.go -source=./interfaces.go

func newTestCodec(secret string, lifetime time.Duration) *TokenCodec {
	return NewTokenCodec(
		[]byte(secret),
		lifetime,
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor(),
		logging.NewNoopLogger(),
	)
}

func testPrincipal() *types.Principal {
	return &types.Principal{
		UserID:   "user-1",
		Email:    "admin@acme.test",
		Role:     types.RoleAdmin,
		TenantID: "tenant-1",
	}
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec("test-secret", time.Hour)
	principal := testPrincipal()

	token, err := codec.IssueToken(context.Background(), principal)
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	got, err := codec.VerifyToken(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error verifying token: %v", err)
	}

	if got.UserID != principal.UserID {
		t.Errorf("expected userId %s, got %s", principal.UserID, got.UserID)
	}
	if got.Email != principal.Email {
		t.Errorf("expected email %s, got %s", principal.Email, got.Email)
	}
	if got.Role != principal.Role {
		t.Errorf("expected role %s, got %s", principal.Role, got.Role)
	}
	if got.TenantID != principal.TenantID {
		t.Errorf("expected tenantId %s, got %s", principal.TenantID, got.TenantID)
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := newTestCodec("test-secret", -time.Minute)

	token, err := codec.IssueToken(context.Background(), testPrincipal())
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}

	_, err = codec.VerifyToken(context.Background(), token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	issuer := newTestCodec("secret-a", time.Hour)
	verifier := newTestCodec("secret-b", time.Hour)

	token, err := issuer.IssueToken(context.Background(), testPrincipal())
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}

	_, err = verifier.VerifyToken(context.Background(), token)
	if !errors.Is(err, ErrTokenSignatureInvalid) {
		t.Errorf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := newTestCodec("test-secret", time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.VerifyToken(context.Background(), raw)
		if !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("token %q: expected ErrTokenMalformed, got %v", raw, err)
		}
	}
}

func TestTokenCodec_MissingIdentityClaims(t *testing.T) {
	codec := newTestCodec("test-secret", time.Hour)

	token, err := codec.IssueToken(context.Background(), &types.Principal{Email: "x@y.test"})
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}

	_, err = codec.VerifyToken(context.Background(), token)
	if !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("expected ErrTokenMalformed for empty identity claims, got %v", err)
	}
}
