// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package status

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/internal/version"
)

const checkTimeout = 2 * time.Second

type Status struct {
	Status    string            `json:"status"`
	BuildInfo *BuildInfo        `json:"buildInfo,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

type BuildInfo struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	Name       string `json:"name"`
}

// Checker reports the health of one dependency.
type Checker func(context.Context) error

type API struct {
	checks map[string]Checker

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Get("/api/v0/status", a.alive)
	mux.Get("/api/v0/version", a.version)
}

func (a *API) alive(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "status.API.alive")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	rr := Status{Status: "ok"}
	code := http.StatusOK

	if len(a.checks) > 0 {
		rr.Checks = make(map[string]string, len(a.checks))
	}
	for name, check := range a.checks {
		if err := check(ctx); err != nil {
			a.logger.Warnf("status check %s failed: %v", name, err)
			rr.Checks[name] = "unavailable"
			rr.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		rr.Checks[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(rr)
}

func (a *API) version(w http.ResponseWriter, r *http.Request) {
	rr := Status{Status: "ok", BuildInfo: buildInfo()}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(rr)
}

func buildInfo() *BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return &BuildInfo{Version: version.Version}
	}

	bi := &BuildInfo{Version: version.Version, Name: info.Main.Path}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			bi.CommitHash = s.Value
		}
	}

	return bi
}

func NewAPI(checks map[string]Checker, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.checks = checks
	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
