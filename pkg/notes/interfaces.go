// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package notes

import (
	"context"

	"github.com/canonical/notes-service/internal/types"
)

type StorageInterface interface {
	GetTenantByID(ctx context.Context, id string) (*types.Tenant, error)
	CreateNote(ctx context.Context, n *types.Note) (*types.Note, error)
	GetNote(ctx context.Context, tenantID, id string) (*types.Note, error)
	ListNotesByTenantID(ctx context.Context, tenantID string) ([]*types.Note, error)
	UpdateNote(ctx context.Context, tenantID, id string, title, content *string) (*types.Note, error)
	DeleteNote(ctx context.Context, tenantID, id string) error
	CountNotesByTenantID(ctx context.Context, tenantID string) (int, error)
}

type AuthzInterface interface {
	CheckNoteQuota(ctx context.Context, tenant *types.Tenant, currentCount int) error
}

type ServiceInterface interface {
	ListNotes(ctx context.Context, principal *types.Principal) ([]*types.Note, error)
	CreateNote(ctx context.Context, principal *types.Principal, title, content string) (*types.Note, error)
	GetNote(ctx context.Context, principal *types.Principal, id string) (*types.Note, error)
	UpdateNote(ctx context.Context, principal *types.Principal, id string, title, content *string) (*types.Note, error)
	DeleteNote(ctx context.Context, principal *types.Principal, id string) error
}
