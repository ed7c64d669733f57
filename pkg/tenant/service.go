// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package tenant implements tenant lookup, the pro subscription upgrade and
// the admin user management surface. Role requirements are enforced at the
// route level; the service re-checks tenant ownership so a privileged
// operation can never cross tenants.
package tenant

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/canonical/notes-service/internal/errs"
	"github.com/canonical/notes-service/internal/logging"
	"github.com/canonical/notes-service/internal/monitoring"
	"github.com/canonical/notes-service/internal/storage"
	"github.com/canonical/notes-service/internal/tracing"
	"github.com/canonical/notes-service/internal/types"
	"github.com/canonical/notes-service/pkg/authentication"
)

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	storage StorageInterface
	authz   AuthzInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	authz AuthzInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage: storage,
		authz:   authz,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func (s *Service) GetTenantBySlug(ctx context.Context, principal *types.Principal, slug string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.GetTenantBySlug")
	defer span.End()

	tenant, err := s.storage.GetTenantBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errs.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	if err := s.authz.CheckTenantAccess(ctx, principal, tenant.ID); err != nil {
		return nil, err
	}

	return tenant, nil
}

// UpgradeTenant moves the principal's own tenant to the pro subscription.
// Idempotent: upgrading an already-pro tenant returns the same result.
func (s *Service) UpgradeTenant(ctx context.Context, principal *types.Principal, slug string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.UpgradeTenant")
	defer span.End()

	tenant, err := s.storage.GetTenantBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errs.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	if err := s.authz.CheckTenantAccess(ctx, principal, tenant.ID); err != nil {
		return nil, err
	}

	upgraded, err := s.storage.UpgradeTenant(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade tenant: %w", err)
	}

	s.logger.Infof("tenant %s upgraded to pro by %s", upgraded.ID, principal.UserID)
	return upgraded, nil
}

// InviteUser provisions a new identity bound to the admin's own tenant. The
// tenant id never comes from the request. The returned one-time password is
// handed out exactly once; only its hash is stored.
func (s *Service) InviteUser(ctx context.Context, principal *types.Principal, email, role string) (*types.User, string, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.InviteUser")
	defer span.End()

	if !types.ValidRole(role) {
		return nil, "", errs.New(errs.ErrorTypeValidation, "Invalid role. Must be admin or member")
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate temporary password: %w", err)
	}

	hash, err := authentication.HashPassword(tempPassword)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash temporary password: %w", err)
	}

	user, err := s.storage.CreateUser(ctx, &types.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         role,
		TenantID:     principal.TenantID,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, "", errs.ErrUserExists
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infof("user %s invited to tenant %s by %s", user.ID, principal.TenantID, principal.UserID)
	return user, tempPassword, nil
}

func (s *Service) ListUsers(ctx context.Context, principal *types.Principal) ([]*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.ListUsers")
	defer span.End()

	users, err := s.storage.ListUsersByTenantID(ctx, principal.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func generateTempPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
