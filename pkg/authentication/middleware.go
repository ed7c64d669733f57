// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"net/http"
	"strings"

	"github.com/canonical/notes-service/internal/errs"
	"github.com/canonical/notes-service/internal/http/types"
	"github.com/canonical/notes-service/internal/logging"
	"github.com/canonical/notes-service/internal/monitoring"
	"github.com/canonical/notes-service/internal/tracing"
)

type Middleware struct {
	codec TokenCodecInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Authenticate verifies the bearer assertion and injects the principal into
// the request context. Requests without a valid assertion never reach the
// wrapped handler.
func (m *Middleware) Authenticate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.tracer.Start(r.Context(), "authentication.Middleware.Authenticate")
			defer span.End()

			token, found := m.getBearerToken(r.Header)
			if !found {
				m.rejectWith(w, errs.New(errs.ErrorTypeUnauthenticated, "No token provided"))
				return
			}

			principal, err := m.codec.VerifyToken(ctx, token)
			if err != nil {
				m.logger.Debugf("token verification failed: %v", err)
				m.rejectWith(w, errs.ErrUnauthenticated)
				return
			}

			ctx = WithPrincipal(ctx, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects principals whose role differs from the requirement.
// Must be stacked after Authenticate.
func (m *Middleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.tracer.Start(r.Context(), "authentication.Middleware.RequireRole")
			defer span.End()

			principal, ok := PrincipalFromContext(ctx)
			if !ok {
				m.rejectWith(w, errs.ErrUnauthenticated)
				return
			}

			if principal.Role != role {
				m.logger.Security().AuthzFailure(principal.UserID, "role:"+role)
				m.rejectWith(w, errs.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *Middleware) getBearerToken(headers http.Header) (string, bool) {
	bearer := headers.Get("Authorization")
	if bearer == "" {
		return "", false
	}

	// Only support "Bearer <token>" format (RFC 6750)
	if !strings.HasPrefix(bearer, "Bearer ") {
		return "", false
	}

	return strings.TrimPrefix(bearer, "Bearer "), true
}

func (m *Middleware) rejectWith(w http.ResponseWriter, err error) {
	if werr := types.WriteError(w, err); werr != nil {
		m.logger.Errorf("failed to encode rejection response: %v", werr)
	}
}

func NewMiddleware(codec TokenCodecInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Middleware {
	return &Middleware{
		codec:   codec,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}
