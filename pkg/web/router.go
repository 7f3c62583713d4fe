// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/canonical/medpay-admin/internal/db"
	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/pkg/authentication"
	"github.com/canonical/medpay-admin/pkg/companies"
	"github.com/canonical/medpay-admin/pkg/grants"
	"github.com/canonical/medpay-admin/pkg/guard"
	"github.com/canonical/medpay-admin/pkg/metrics"
	"github.com/canonical/medpay-admin/pkg/screens"
	"github.com/canonical/medpay-admin/pkg/session"
	"github.com/canonical/medpay-admin/pkg/status"
)

// Services groups what the HTTP surface is built from.
type Services struct {
	Sessions     authentication.SessionManagerInterface
	Cookies      *authentication.CookieCodec
	LoginLimiter *authentication.Limiter
	Companies    companies.ServiceInterface
	Grants       grants.ServiceInterface
	DB           db.DBClientInterface
	StatusChecks map[string]status.Checker
	CORSOrigins  []string
}

func NewRouter(
	s *Services,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	middlewares := make(chi.Middlewares, 0)
	middlewares = append(
		middlewares,
		middleware.RequestID,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		middlewareCORS(s.CORSOrigins),
		authentication.NewMiddleware(s.Sessions, s.Cookies, tracer, monitor, logger).LoadSession(),
	)

	router.Use(middlewares...)

	guardMiddleware := guard.NewMiddleware(tracer, monitor, logger)

	metrics.NewAPI(logger).RegisterEndpoints(router)
	status.NewAPI(s.StatusChecks, tracer, monitor, logger).RegisterEndpoints(router)
	authentication.NewAPI(s.Sessions, s.Cookies, s.LoginLimiter, tracer, monitor, logger).RegisterEndpoints(router)
	screens.NewAPI(screens.Routes, guardMiddleware, tracer, logger).RegisterEndpoints(router)

	router.Group(func(r chi.Router) {
		r.Use(guardMiddleware.ProtectAPI(false))
		companies.NewAPI(s.Companies, tracer, monitor, logger).RegisterEndpoints(r)
	})

	router.Group(func(r chi.Router) {
		r.Use(guardMiddleware.ProtectAPI(true))
		r.Use(db.TransactionMiddleware(s.DB, logger))
		grants.NewAPI(s.Grants, tracer, monitor, logger).RegisterEndpoints(r)
	})

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}

// compile-time check that the manager satisfies the HTTP layer
var _ authentication.SessionManagerInterface = (*session.Manager)(nil)
