// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package companies

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/internal/types"
	"github.com/canonical/medpay-admin/pkg/session"
)

type ListResponse struct {
	Data []*types.Company `json:"data"`
	Page int64            `json:"page"`
	Size int64            `json:"size"`
}

type API struct {
	service ServiceInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get("/api/v0/companies", a.list)
	mux.Get("/api/v0/companies/{id}", a.get)
}

func (a *API) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "companies.API.list")
	defer span.End()

	page, err := intParam(r, "page")
	if err != nil {
		a.errorResponse(w, http.StatusBadRequest, "invalid page parameter")
		return
	}
	size, err := intParam(r, "size")
	if err != nil {
		a.errorResponse(w, http.StatusBadRequest, "invalid size parameter")
		return
	}

	companies, err := a.service.ListCompanies(ctx, session.SnapshotFromContext(ctx), page, size)
	if err != nil {
		a.logger.Errorf("failed to list companies: %v", err)
		a.errorResponse(w, http.StatusInternalServerError, "failed to list companies")
		return
	}

	a.jsonResponse(w, http.StatusOK, ListResponse{Data: companies, Page: page, Size: size})
}

func (a *API) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "companies.API.get")
	defer span.End()

	company, err := a.service.GetCompany(ctx, session.SnapshotFromContext(ctx), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrCompanyNotFound) {
			a.errorResponse(w, http.StatusNotFound, "company not found")
			return
		}
		a.logger.Errorf("failed to get company: %v", err)
		a.errorResponse(w, http.StatusInternalServerError, "failed to get company")
		return
	}

	a.jsonResponse(w, http.StatusOK, company)
}

func intParam(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (a *API) errorResponse(w http.ResponseWriter, status int, message string) {
	a.jsonResponse(w, status, map[string]interface{}{
		"status":  status,
		"message": message,
	})
}

func (a *API) jsonResponse(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}

func NewAPI(service ServiceInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	return &API{
		service: service,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}
