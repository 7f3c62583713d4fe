// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package screens

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/internal/types"
	"github.com/canonical/medpay-admin/pkg/guard"
	"github.com/canonical/medpay-admin/pkg/session"
)

var grantsA = []types.CompanyGrant{{ID: "g1", UserID: "u1", CompanyID: "company-a", CompanyName: "Clinica A"}}

func route(name string) guard.Route {
	for _, r := range Routes {
		if r.Name == name {
			return r
		}
	}
	panic("unknown route " + name)
}

func TestNewContext(t *testing.T) {
	admin := &types.Identity{ID: "admin", Role: types.RoleAdmin, Token: "secret"}
	usuario := &types.Identity{ID: "u1", Role: types.RoleUsuario, Token: "secret"}
	undefined := &types.Identity{ID: "u2"}

	tests := []struct {
		name            string
		snapshot        session.Snapshot
		companyID       string
		canMutate       bool
		unrestricted    bool
		expectedCompany *SelectedCompany
	}{
		{
			name:         "admin without company",
			snapshot:     session.Snapshot{Identity: admin, CompanyGrants: grantsA},
			canMutate:    true,
			unrestricted: true,
		},
		{
			name:            "admin on any company",
			snapshot:        session.Snapshot{Identity: admin},
			companyID:       "company-z",
			canMutate:       true,
			unrestricted:    true,
			expectedCompany: &SelectedCompany{ID: "company-z", Reachable: true},
		},
		{
			name:            "usuario on granted company",
			snapshot:        session.Snapshot{Identity: usuario, CompanyGrants: grantsA},
			companyID:       "company-a",
			canMutate:       true,
			expectedCompany: &SelectedCompany{ID: "company-a", Name: "Clinica A", Override: true, Reachable: true},
		},
		{
			name:            "usuario on foreign company",
			snapshot:        session.Snapshot{Identity: usuario, CompanyGrants: grantsA},
			companyID:       "company-b",
			expectedCompany: &SelectedCompany{ID: "company-b", Name: "Empresa não encontrada", Override: true},
		},
		{
			name:     "usuario without grants sees nothing",
			snapshot: session.Snapshot{Identity: usuario},
		},
		{
			name:     "undefined role fails closed",
			snapshot: session.Snapshot{Identity: undefined, CompanyGrants: grantsA},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContext(route("empresas"), tt.snapshot, tt.companyID)

			if c.CanMutate != tt.canMutate {
				t.Errorf("expected can_mutate %v, got %v", tt.canMutate, c.CanMutate)
			}
			if c.Scope.IsUnrestricted() != tt.unrestricted {
				t.Errorf("expected unrestricted %v, got %v", tt.unrestricted, c.Scope.IsUnrestricted())
			}
			if c.Identity != nil && c.Identity.Token != "" {
				t.Error("token leaked into screen context")
			}

			switch {
			case tt.expectedCompany == nil && c.Company != nil:
				t.Errorf("expected no company, got %+v", c.Company)
			case tt.expectedCompany != nil && (c.Company == nil || *c.Company != *tt.expectedCompany):
				t.Errorf("expected company %+v, got %+v", tt.expectedCompany, c.Company)
			}
		})
	}
}

func signedInStore(t *testing.T, role types.Role) *session.Store {
	ctrl := gomock.NewController(t)

	auth := session.NewMockAuthBackendInterface(ctrl)
	profiles := session.NewMockProfileStoreInterface(ctrl)

	auth.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).Return(&types.AuthSession{Token: "t", IdentityID: "u1", ExpiresAt: time.Now().Add(time.Hour)}, nil)
	profiles.EXPECT().FetchProfile(gomock.Any(), "u1").Return(&types.Profile{UserID: "u1", Role: role}, nil)
	profiles.EXPECT().FetchCompanyGrants(gomock.Any(), "u1").Return(grantsA, nil)

	logger := logging.NewNoopLogger()
	store := session.NewStore("key", time.Hour, auth, profiles, session.NewMemoryStorage(), tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)
	if err := store.SignIn(context.Background(), "ana@medpay.com", "secret"); err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	return store
}

func TestAPI_Screens(t *testing.T) {
	tests := []struct {
		name             string
		path             string
		role             types.Role
		signedIn         bool
		expectedStatus   int
		expectedLocation string
		expectedScreen   string
	}{
		{name: "login is public", path: "/login?next=%2Fmedicos", expectedStatus: http.StatusOK, expectedScreen: "login"},
		{name: "signed out goes to login", path: "/medicos", expectedStatus: http.StatusSeeOther, expectedLocation: "/login?next=%2Fmedicos"},
		{name: "medico opens medicos", path: "/medicos", signedIn: true, role: types.RoleMedico, expectedStatus: http.StatusOK, expectedScreen: "medicos"},
		{name: "usuario cannot open usuarios", path: "/usuarios", signedIn: true, role: types.RoleUsuario, expectedStatus: http.StatusSeeOther, expectedLocation: "/dashboard"},
		{name: "admin opens configuracoes", path: "/configuracoes", signedIn: true, role: types.RoleAdmin, expectedStatus: http.StatusOK, expectedScreen: "configuracoes"},
		{name: "signed in login goes to dashboard", path: "/login", signedIn: true, role: types.RoleAdmin, expectedStatus: http.StatusSeeOther, expectedLocation: "/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logging.NewNoopLogger()
			tracer := tracing.NewNoopTracer()

			mux := chi.NewMux()
			NewAPI(Routes, guard.NewMiddleware(tracer, monitoring.NewNoopMonitor("test", logger), logger), tracer, logger).RegisterEndpoints(mux)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.signedIn {
				req = req.WithContext(session.WithStore(req.Context(), signedInStore(t, tt.role)))
			}
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("expected %d, got %d", tt.expectedStatus, rr.Code)
			}
			if loc := rr.Header().Get("Location"); loc != tt.expectedLocation {
				t.Fatalf("expected location %q, got %q", tt.expectedLocation, loc)
			}
			if tt.expectedScreen == "" {
				return
			}

			var c map[string]interface{}
			if err := json.Unmarshal(rr.Body.Bytes(), &c); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if c["screen"] != tt.expectedScreen {
				t.Fatalf("expected screen %q, got %v", tt.expectedScreen, c["screen"])
			}
		})
	}
}
