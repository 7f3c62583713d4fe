// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package screens

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/internal/types"
	"github.com/canonical/medpay-admin/pkg/access"
	"github.com/canonical/medpay-admin/pkg/guard"
	"github.com/canonical/medpay-admin/pkg/session"
)

// SelectedCompany is the company a screen was opened for, named as the
// signed-in identity is allowed to see it.
type SelectedCompany struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Override  bool   `json:"name_override"`
	Reachable bool   `json:"reachable"`
}

// Context is what a screen needs to render: who is signed in, which companies
// its queries may touch and whether mutate actions are shown.
type Context struct {
	Screen    string               `json:"screen"`
	AdminOnly bool                 `json:"admin_only"`
	Identity  *types.Identity      `json:"identity,omitempty"`
	Grants    []types.CompanyGrant `json:"company_grants"`
	Scope     access.Scope         `json:"scope"`
	CanMutate bool                 `json:"can_mutate"`
	Company   *SelectedCompany     `json:"company,omitempty"`
	Next      string               `json:"next,omitempty"`
}

// NewContext builds the context of route for a snapshot. companyID is the
// company the screen was opened for, if any.
func NewContext(route guard.Route, snapshot session.Snapshot, companyID string) Context {
	c := Context{
		Screen:    route.Name,
		AdminOnly: route.AdminOnly,
		Grants:    []types.CompanyGrant{},
		Scope:     access.AllowedCompanyIDs(snapshot.Identity, snapshot.CompanyGrants),
	}

	if snapshot.Identity != nil {
		identity := *snapshot.Identity
		identity.Token = ""
		c.Identity = &identity
	}
	if snapshot.CompanyGrants != nil && !access.IsAdmin(snapshot.Identity) {
		c.Grants = snapshot.CompanyGrants
	}

	if companyID == "" {
		c.CanMutate = !c.Scope.IsEmpty()
		return c
	}

	name, override := access.CompanyDisplayName(snapshot.Identity, snapshot.CompanyGrants, companyID)
	reachable := access.CanAccessCompany(snapshot.Identity, snapshot.CompanyGrants, companyID)

	c.CanMutate = reachable
	c.Company = &SelectedCompany{
		ID:        companyID,
		Name:      name,
		Override:  override,
		Reachable: reachable,
	}

	return c
}

type API struct {
	routes []guard.Route
	guard  *guard.Middleware

	tracer tracing.TracingInterface
	logger logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	for _, route := range a.routes {
		mux.With(a.guard.Protect(route)).Get(route.Path, a.screen(route))
	}
}

func (a *API) screen(route guard.Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := a.tracer.Start(r.Context(), "screens.API.screen")
		defer span.End()

		c := NewContext(route, session.SnapshotFromContext(ctx), r.URL.Query().Get("company_id"))
		if route.Public {
			c.Next = r.URL.Query().Get("next")
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(c); err != nil {
			a.logger.Errorf("failed to encode screen context: %v", err)
		}
	}
}

func NewAPI(routes []guard.Route, guardMiddleware *guard.Middleware, tracer tracing.TracingInterface, logger logging.LoggerInterface) *API {
	a := new(API)
	a.routes = routes
	a.guard = guardMiddleware
	a.tracer = tracer
	a.logger = logger

	return a
}
