// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/canonical/notes-service/internal/authorization"
	"github.com/canonical/notes-service/internal/db"
	"github.com/canonical/notes-service/internal/logging"
	"github.com/canonical/notes-service/internal/monitoring"
	"github.com/canonical/notes-service/internal/storage"
	"github.com/canonical/notes-service/internal/tracing"
	"github.com/canonical/notes-service/pkg/authentication"
	"github.com/canonical/notes-service/pkg/metrics"
	"github.com/canonical/notes-service/pkg/notes"
	"github.com/canonical/notes-service/pkg/status"
	"github.com/canonical/notes-service/pkg/tenant"
)

type RouterConfig struct {
	TokenSecret   []byte
	TokenLifetime time.Duration
	CORSOrigins   []string
}

func NewRouter(
	cfg RouterConfig,
	s storage.StorageInterface,
	dbClient db.DBClientInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	router.Use(
		middleware.RequestID,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}),
	)

	authz := authorization.NewAuthorizer(tracer, monitor, logger)
	codec := authentication.NewTokenCodec(cfg.TokenSecret, cfg.TokenLifetime, tracer, monitor, logger)
	authMiddleware := authentication.NewMiddleware(codec, tracer, monitor, logger)

	authService := authentication.NewService(s, codec, tracer, monitor, logger)
	notesService := notes.NewService(s, authz, tracer, monitor, logger)
	tenantService := tenant.NewService(s, authz, tracer, monitor, logger)

	metrics.NewAPI(logger).RegisterEndpoints(router)
	status.NewAPI(tracer, monitor, logger).RegisterEndpoints(router)
	authentication.NewAPI(authService, tracer, monitor, logger).RegisterEndpoints(router)

	router.Group(func(r chi.Router) {
		r.Use(
			authMiddleware.Authenticate(),
			db.TransactionMiddleware(dbClient, logger),
		)

		notes.NewAPI(notesService, tracer, monitor, logger).RegisterEndpoints(r)
		tenant.NewAPI(tenantService, authMiddleware, tracer, monitor, logger).RegisterEndpoints(r)
	})

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}
