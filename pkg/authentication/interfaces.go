// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"

	"github.com/canonical/notes-service/internal/types"
)

type TokenCodecInterface interface {
	// IssueToken signs a time-bound identity assertion for the principal
	IssueToken(ctx context.Context, principal *types.Principal) (string, error)
	// VerifyToken checks signature integrity and expiry and returns the principal
	VerifyToken(ctx context.Context, rawToken string) (*types.Principal, error)
}

type StorageInterface interface {
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
}

type ServiceInterface interface {
	Login(ctx context.Context, email, password string) (string, *types.User, error)
}
