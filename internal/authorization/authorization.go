// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package authorization holds the tenant scoped access policy. Handlers
// authenticate first, then consult the Authorizer in a fixed order: role,
// tenant ownership, quota.
package authorization

import (
	"context"

	"github.com/canonical/notes-service/internal/errs"
	"github.com/canonical/notes-service/internal/logging"
	"github.com/canonical/notes-service/internal/monitoring"
	"github.com/canonical/notes-service/internal/tracing"
	"github.com/canonical/notes-service/internal/types"
)

var _ AuthorizerInterface = (*Authorizer)(nil)

type Authorizer struct {
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAuthorizer(tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Authorizer {
	return &Authorizer{
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// CheckRole rejects principals whose role differs from the requirement.
func (a *Authorizer) CheckRole(ctx context.Context, principal *types.Principal, role string) error {
	_, span := a.tracer.Start(ctx, "authorization.Authorizer.CheckRole")
	defer span.End()

	if principal.Role != role {
		a.logger.Security().AuthzFailure(principal.UserID, "role:"+role)
		return errs.ErrForbidden
	}

	return nil
}

// CheckTenantAccess rejects principals acting on a tenant other than their
// own. The tenant/identity binding is immutable, so this is a plain equality
// check.
func (a *Authorizer) CheckTenantAccess(ctx context.Context, principal *types.Principal, tenantID string) error {
	_, span := a.tracer.Start(ctx, "authorization.Authorizer.CheckTenantAccess")
	defer span.End()

	if principal.TenantID != tenantID {
		a.logger.Security().AuthzFailure(principal.UserID, "tenant:"+tenantID)
		return errs.ErrAccessDenied
	}

	return nil
}

// CheckNoteQuota enforces the subscription limit before a note insert.
// Pro tenants (note_limit -1) are never limited.
func (a *Authorizer) CheckNoteQuota(ctx context.Context, tenant *types.Tenant, currentCount int) error {
	_, span := a.tracer.Start(ctx, "authorization.Authorizer.CheckNoteQuota")
	defer span.End()

	if tenant.Subscription != types.SubscriptionFree || tenant.Unlimited() {
		return nil
	}

	if currentCount >= tenant.NoteLimit {
		a.logger.Debugf("tenant %s at note quota (%d/%d)", tenant.ID, currentCount, tenant.NoteLimit)
		return errs.ErrNoteLimitReached
	}

	return nil
}
