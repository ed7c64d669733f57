// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"

	"github.com/canonical/notes-service/internal/types"
)

type AuthorizerInterface interface {
	CheckRole(ctx context.Context, principal *types.Principal, role string) error
	CheckTenantAccess(ctx context.Context, principal *types.Principal, tenantID string) error
	CheckNoteQuota(ctx context.Context, tenant *types.Tenant, currentCount int) error
}
