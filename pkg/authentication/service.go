// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"errors"
	"fmt"
	"strings"

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
	codec   TokenCodecInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	codec TokenCodecInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage: storage,
		codec:   codec,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// Login validates the presented credentials and issues a signed identity
// assertion. Unknown email and wrong password are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *types.User, error) {
	ctx, span := s.tracer.Start(ctx, "authentication.Service.Login")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			CompareDummy(password)
			s.logger.Security().AuthnFailure(email)
			return "", nil, errs.ErrInvalidCredentials
		}
		s.logger.Errorf("failed to look up user: %v", err)
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		s.logger.Security().AuthnFailure(email)
		return "", nil, errs.ErrInvalidCredentials
	}

	token, err := s.codec.IssueToken(ctx, &types.Principal{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		TenantID: user.TenantID,
	})
	if err != nil {
		s.logger.Errorf("failed to issue token: %v", err)
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Security().AuthnSuccess(user.ID)
	return token, user, nil
}
