// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/canonical/notes-service/internal/errs"
	"github.com/canonical/notes-service/internal/http/types"
	"github.com/canonical/notes-service/internal/logging"
	"github.com/canonical/notes-service/internal/monitoring"
	"github.com/canonical/notes-service/internal/tracing"
	"github.com/canonical/notes-service/internal/validation"
	domain "github.com/canonical/notes-service/internal/types"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type API struct {
	service ServiceInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(service ServiceInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	return &API{
		service: service,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Post("/auth/login", a.login)
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "authentication.API.login")
	defer span.End()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, errs.New(errs.ErrorTypeValidation, "Email and password are required"))
		return
	}

	if err := validation.Validate(&req); err != nil {
		a.writeError(w, errs.New(errs.ErrorTypeValidation, "Email and password are required"))
		return
	}

	token, user, err := a.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		a.writeError(w, err)
		return
	}

	if err := types.WriteJSON(w, http.StatusOK, LoginResponse{Token: token, User: user}); err != nil {
		a.logger.Errorf("failed to encode login response: %v", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	if werr := types.WriteError(w, err); werr != nil {
		a.logger.Errorf("failed to encode error response: %v", werr)
	}
}
