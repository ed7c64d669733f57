// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"

	"github.com/canonical/notes-service/internal/types"
)

type StorageInterface interface {
	CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error)
	GetTenantByID(ctx context.Context, id string) (*types.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*types.Tenant, error)
	UpgradeTenant(ctx context.Context, id string) (*types.Tenant, error)

	CreateUser(ctx context.Context, u *types.User) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetUserByID(ctx context.Context, id string) (*types.User, error)
	ListUsersByTenantID(ctx context.Context, tenantID string) ([]*types.User, error)

	CreateNote(ctx context.Context, n *types.Note) (*types.Note, error)
	GetNote(ctx context.Context, tenantID, id string) (*types.Note, error)
	ListNotesByTenantID(ctx context.Context, tenantID string) ([]*types.Note, error)
	UpdateNote(ctx context.Context, tenantID, id string, title, content *string) (*types.Note, error)
	DeleteNote(ctx context.Context, tenantID, id string) error
	CountNotesByTenantID(ctx context.Context, tenantID string) (int, error)
}
