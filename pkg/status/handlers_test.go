// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/internal/version"
)

func TestAPI_Alive(t *testing.T) {
	tests := []struct {
		name           string
		checks         map[string]Checker
		expectedStatus int
		expectedState  string
	}{
		{name: "no checks", expectedStatus: http.StatusOK, expectedState: "ok"},
		{
			name:           "healthy dependency",
			checks:         map[string]Checker{"postgres": func(context.Context) error { return nil }},
			expectedStatus: http.StatusOK,
			expectedState:  "ok",
		},
		{
			name: "failing dependency",
			checks: map[string]Checker{
				"postgres": func(context.Context) error { return nil },
				"redis":    func(context.Context) error { return errors.New("refused") },
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logging.NewNoopLogger()
			mux := chi.NewMux()
			NewAPI(tt.checks, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger).RegisterEndpoints(mux)

			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v0/status", nil))

			if rr.Code != tt.expectedStatus {
				t.Fatalf("expected %d, got %d", tt.expectedStatus, rr.Code)
			}

			var s Status
			if err := json.Unmarshal(rr.Body.Bytes(), &s); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if s.Status != tt.expectedState {
				t.Fatalf("expected %q, got %q", tt.expectedState, s.Status)
			}
			if len(s.Checks) != len(tt.checks) {
				t.Fatalf("expected %d checks, got %v", len(tt.checks), s.Checks)
			}
		})
	}
}

func TestAPI_Version(t *testing.T) {
	logger := logging.NewNoopLogger()
	mux := chi.NewMux()
	NewAPI(nil, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger).RegisterEndpoints(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v0/version", nil))

	var s Status
	if err := json.Unmarshal(rr.Body.Bytes(), &s); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if s.BuildInfo == nil || s.BuildInfo.Version != version.Version {
		t.Fatalf("unexpected build info %+v", s.BuildInfo)
	}
}
