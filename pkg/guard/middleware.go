// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package guard

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/pkg/access"
	"github.com/canonical/medpay-admin/pkg/session"
)

const retryAfterSeconds = "1"

type Middleware struct {
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Protect guards a screen route. Denied navigations are answered with a 303 redirect.
func (m *Middleware) Protect(route Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.tracer.Start(r.Context(), "guard.Middleware.Protect")
			defer span.End()

			snapshot := session.SnapshotFromContext(ctx)
			decision := Decide(snapshot, route)

			switch decision.Outcome {
			case Allow:
				next.ServeHTTP(w, r.WithContext(ctx))
			case Wait:
				w.Header().Set("Retry-After", retryAfterSeconds)
				w.WriteHeader(http.StatusServiceUnavailable)
			case Redirect:
				target := decision.Target
				if target == LoginPath {
					target = LoginPath + "?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
				} else if route.AdminOnly && snapshot.SignedIn() {
					m.logger.Security().AuthzFailure(snapshot.Identity.ID, route.Path)
				}

				http.Redirect(w, r, target, http.StatusSeeOther)
			}
		})
	}
}

// ProtectAPI guards a JSON route. Admin-only routes answer 404 to everyone else.
func (m *Middleware) ProtectAPI(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.tracer.Start(r.Context(), "guard.Middleware.ProtectAPI")
			defer span.End()

			snapshot := session.SnapshotFromContext(ctx)

			switch StateOf(snapshot) {
			case Loading:
				w.Header().Set("Retry-After", retryAfterSeconds)
				m.jsonResponse(w, http.StatusServiceUnavailable, "session is loading")
				return
			case Unauthenticated:
				m.jsonResponse(w, http.StatusUnauthorized, "not signed in")
				return
			}

			if adminOnly && !access.IsAdmin(snapshot.Identity) {
				m.logger.Security().AuthzFailure(snapshot.Identity.ID, r.URL.Path)
				m.jsonResponse(w, http.StatusNotFound, "not found")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *Middleware) jsonResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  status,
		"message": message,
	}); err != nil {
		m.logger.Errorf("failed to encode response: %v", err)
	}
}

func NewMiddleware(tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Middleware {
	return &Middleware{
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}
