// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"net/http"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/pkg/session"
)

type Middleware struct {
	manager SessionManagerInterface
	cookies *CookieCodec

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// LoadSession attaches the restored Store named by the session cookie to the
// request context. A signed-out Store is forgotten so the next request retries
// the restore, the cookie is left in place.
func (m *Middleware) LoadSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.tracer.Start(r.Context(), "authentication.Middleware.LoadSession")
			defer span.End()

			key, found := m.cookies.Read(r)
			if !found {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			store := m.manager.Open(ctx, key)
			if !store.Snapshot().SignedIn() {
				m.logger.Debugf("session %s is signed out", key)
				m.manager.Forget(key)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithStore(ctx, store)))
		})
	}
}

func NewMiddleware(manager SessionManagerInterface, cookies *CookieCodec, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Middleware {
	return &Middleware{
		manager: manager,
		cookies: cookies,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}
