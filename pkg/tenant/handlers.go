// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"encoding/json"
	"fmt"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/canonical/notes-service/internal/errs"
	"github.com/canonical/notes-service/internal/http/types"
	"github.com/canonical/notes-service/internal/logging"
	"github.com/canonical/notes-service/internal/monitoring"
	"github.com/canonical/notes-service/internal/tracing"
	"github.com/canonical/notes-service/internal/validation"
	domain "github.com/canonical/notes-service/internal/types"
	"github.com/canonical/notes-service/pkg/authentication"
)

type InviteUserRequest struct {
	Email string `json:"email" validate:"required"`
	Role  string `json:"role" validate:"required"`
}

type TenantResponse struct {
	Tenant *domain.Tenant `json:"tenant"`
}

type InviteUserResponse struct {
	Message      string       `json:"message"`
	User         *domain.User `json:"user"`
	TempPassword string       `json:"tempPassword"`
}

type UsersResponse struct {
	Users []*domain.User `json:"users"`
}

type API struct {
	service ServiceInterface
	auth    *authentication.Middleware

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(
	service ServiceInterface,
	auth *authentication.Middleware,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	return &API{
		service: service,
		auth:    auth,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// RegisterEndpoints mounts the tenant routes. The caller is expected to have
// the authentication middleware applied on r; the admin requirement is
// stacked on top here.
func (a *API) RegisterEndpoints(r chi.Router) {
	r.Get("/tenants/{slug}", a.getTenant)

	admin := r.With(a.auth.RequireRole(domain.RoleAdmin))
	admin.Get("/tenants/users", a.listUsers)
	admin.Post("/tenants/invite", a.inviteUser)
	admin.Post("/tenants/{slug}/upgrade", a.upgradeTenant)
}

func (a *API) getTenant(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.getTenant")
	defer span.End()

	principal, ok := authentication.PrincipalFromContext(ctx)
	if !ok {
		a.writeError(w, errs.ErrUnauthenticated)
		return
	}

	tenant, err := a.service.GetTenantBySlug(ctx, principal, chi.URLParam(r, "slug"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, TenantResponse{Tenant: tenant})
}

func (a *API) upgradeTenant(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.upgradeTenant")
	defer span.End()

	principal, ok := authentication.PrincipalFromContext(ctx)
	if !ok {
		a.writeError(w, errs.ErrUnauthenticated)
		return
	}

	tenant, err := a.service.UpgradeTenant(ctx, principal, chi.URLParam(r, "slug"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, TenantResponse{Tenant: tenant})
}

func (a *API) inviteUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.inviteUser")
	defer span.End()

	principal, ok := authentication.PrincipalFromContext(ctx)
	if !ok {
		a.writeError(w, errs.ErrUnauthenticated)
		return
	}

	var req InviteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, errs.New(errs.ErrorTypeValidation, "Email and role are required"))
		return
	}
	if err := validation.Validate(&req); err != nil {
		a.writeError(w, errs.New(errs.ErrorTypeValidation, "Email and role are required"))
		return
	}

	user, tempPassword, err := a.service.InviteUser(ctx, principal, req.Email, req.Role)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, InviteUserResponse{
		Message:      fmt.Sprintf("User %s has been added to the tenant", user.Email),
		User:         user,
		TempPassword: tempPassword,
	})
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.listUsers")
	defer span.End()

	principal, ok := authentication.PrincipalFromContext(ctx)
	if !ok {
		a.writeError(w, errs.ErrUnauthenticated)
		return
	}

	users, err := a.service.ListUsers(ctx, principal)
	if err != nil {
		a.logger.Errorf("failed to list users: %v", err)
		a.writeError(w, err)
		return
	}
	if users == nil {
		users = []*domain.User{}
	}

	a.writeJSON(w, http.StatusOK, UsersResponse{Users: users})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	if err := types.WriteJSON(w, status, v); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	if werr := types.WriteError(w, err); werr != nil {
		a.logger.Errorf("failed to encode error response: %v", werr)
	}
}
