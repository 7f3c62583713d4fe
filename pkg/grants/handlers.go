// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package grants

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
)

type API struct {
	service  ServiceInterface
	validate *validator.Validate

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get("/api/v0/users/{id}/grants", a.list)
	mux.Put("/api/v0/users/{id}/grants/{companyID}", a.grant)
	mux.Delete("/api/v0/users/{id}/grants/{companyID}", a.revoke)
	mux.Post("/api/v0/users", a.provision)
}

func (a *API) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "grants.API.list")
	defer span.End()

	grants, err := a.service.ListGrants(ctx, chi.URLParam(r, "id"))
	if err != nil {
		a.serviceErrorResponse(w, err)
		return
	}

	a.jsonResponse(w, http.StatusOK, map[string]interface{}{"data": grants})
}

func (a *API) grant(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "grants.API.grant")
	defer span.End()

	grant, err := a.service.Grant(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "companyID"))
	if err != nil {
		a.serviceErrorResponse(w, err)
		return
	}

	a.jsonResponse(w, http.StatusCreated, grant)
}

func (a *API) revoke(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "grants.API.revoke")
	defer span.End()

	if err := a.service.Revoke(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "companyID")); err != nil {
		a.serviceErrorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) provision(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "grants.API.provision")
	defer span.End()

	req := new(ProvisionRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		a.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := a.validate.Struct(req); err != nil {
		a.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := a.service.ProvisionUser(ctx, req)
	if err != nil {
		a.serviceErrorResponse(w, err)
		return
	}

	a.jsonResponse(w, http.StatusCreated, result)
}

func (a *API) serviceErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmailAlreadyRegistered):
		a.errorResponse(w, http.StatusConflict, "E-mail já cadastrado.")
	case errors.Is(err, ErrGrantExists):
		a.errorResponse(w, http.StatusConflict, "company grant already exists")
	case errors.Is(err, ErrGrantNotFound):
		a.errorResponse(w, http.StatusNotFound, "company grant not found")
	case errors.Is(err, ErrUnknownUserOrCompany):
		a.errorResponse(w, http.StatusNotFound, "user or company not found")
	case errors.Is(err, ErrInvalidRole):
		a.errorResponse(w, http.StatusBadRequest, "invalid role")
	default:
		a.logger.Errorf("grants request failed: %v", err)
		a.errorResponse(w, http.StatusInternalServerError, "internal error")
	}
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
	a := new(API)
	a.service = service
	a.validate = validator.New(validator.WithRequiredStructEnabled())
	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
