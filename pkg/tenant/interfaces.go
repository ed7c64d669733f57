// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"

	"github.com/canonical/notes-service/internal/types"
)

type StorageInterface interface {
	GetTenantBySlug(ctx context.Context, slug string) (*types.Tenant, error)
	UpgradeTenant(ctx context.Context, id string) (*types.Tenant, error)
	CreateUser(ctx context.Context, u *types.User) (*types.User, error)
	ListUsersByTenantID(ctx context.Context, tenantID string) ([]*types.User, error)
}

type AuthzInterface interface {
	CheckTenantAccess(ctx context.Context, principal *types.Principal, tenantID string) error
}

type ServiceInterface interface {
	GetTenantBySlug(ctx context.Context, principal *types.Principal, slug string) (*types.Tenant, error)
	UpgradeTenant(ctx context.Context, principal *types.Principal, slug string) (*types.Tenant, error)
	InviteUser(ctx context.Context, principal *types.Principal, email, role string) (*types.User, string, error)
	ListUsers(ctx context.Context, principal *types.Principal) ([]*types.User, error)
}
