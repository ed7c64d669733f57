// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package notes implements the tenant scoped note operations. Every storage
// query is filtered by the caller's tenant id; a note id belonging to a
// different tenant surfaces as not found, never forbidden, so existence
// never leaks across tenants.
package notes

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/notes-service/internal/errs"
	"github.com/canonical/notes-service/internal/logging"
	"github.com/canonical/notes-service/internal/monitoring"
	"github.com/canonical/notes-service/internal/storage"
	"github.com/canonical/notes-service/internal/tracing"
	"github.com/canonical/notes-service/internal/types"
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

func (s *Service) ListNotes(ctx context.Context, principal *types.Principal) ([]*types.Note, error) {
	ctx, span := s.tracer.Start(ctx, "notes.Service.ListNotes")
	defer span.End()

	notes, err := s.storage.ListNotesByTenantID(ctx, principal.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return notes, nil
}

// CreateNote inserts a note for the principal's tenant after the
// subscription quota check. The count and insert run inside the per request
// transaction, so concurrent creates at the quota boundary serialize there.
func (s *Service) CreateNote(ctx context.Context, principal *types.Principal, title, content string) (*types.Note, error) {
	ctx, span := s.tracer.Start(ctx, "notes.Service.CreateNote")
	defer span.End()

	tenant, err := s.storage.GetTenantByID(ctx, principal.TenantID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errs.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	if tenant.Subscription == types.SubscriptionFree && !tenant.Unlimited() {
		count, err := s.storage.CountNotesByTenantID(ctx, principal.TenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to count notes: %w", err)
		}
		if err := s.authz.CheckNoteQuota(ctx, tenant, count); err != nil {
			return nil, err
		}
	}

	note, err := s.storage.CreateNote(ctx, &types.Note{
		Title:     title,
		Content:   content,
		TenantID:  principal.TenantID,
		CreatedBy: principal.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return note, nil
}

func (s *Service) GetNote(ctx context.Context, principal *types.Principal, id string) (*types.Note, error) {
	ctx, span := s.tracer.Start(ctx, "notes.Service.GetNote")
	defer span.End()

	note, err := s.storage.GetNote(ctx, principal.TenantID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errs.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

func (s *Service) UpdateNote(ctx context.Context, principal *types.Principal, id string, title, content *string) (*types.Note, error) {
	ctx, span := s.tracer.Start(ctx, "notes.Service.UpdateNote")
	defer span.End()

	note, err := s.storage.UpdateNote(ctx, principal.TenantID, id, title, content)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errs.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return note, nil
}

func (s *Service) DeleteNote(ctx context.Context, principal *types.Principal, id string) error {
	ctx, span := s.tracer.Start(ctx, "notes.Service.DeleteNote")
	defer span.End()

	if err := s.storage.DeleteNote(ctx, principal.TenantID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errs.ErrNoteNotFound
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}
