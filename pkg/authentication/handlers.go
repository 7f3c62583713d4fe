// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/internal/types"
	"github.com/canonical/medpay-admin/pkg/access"
	"github.com/canonical/medpay-admin/pkg/session"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is the public view of a session. The backend token is never exposed.
type SessionResponse struct {
	SignedIn      bool                 `json:"signed_in"`
	IsLoading     bool                 `json:"is_loading"`
	IsAdmin       bool                 `json:"is_admin"`
	Identity      *types.Identity      `json:"identity,omitempty"`
	CompanyGrants []types.CompanyGrant `json:"company_grants"`
	Scope         access.Scope         `json:"scope"`
}

func NewSessionResponse(snapshot session.Snapshot) SessionResponse {
	resp := SessionResponse{
		SignedIn:      snapshot.SignedIn(),
		IsLoading:     snapshot.IsLoading,
		IsAdmin:       access.IsAdmin(snapshot.Identity),
		CompanyGrants: []types.CompanyGrant{},
		Scope:         access.AllowedCompanyIDs(snapshot.Identity, snapshot.CompanyGrants),
	}

	if snapshot.Identity != nil {
		identity := *snapshot.Identity
		identity.Token = ""
		resp.Identity = &identity
	}
	if snapshot.CompanyGrants != nil {
		resp.CompanyGrants = snapshot.CompanyGrants
	}

	return resp
}

type API struct {
	manager  SessionManagerInterface
	cookies  *CookieCodec
	limiter  *Limiter
	validate *validator.Validate

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Post("/api/v0/auth/login", a.login)
	mux.Post("/api/v0/auth/logout", a.logout)
	mux.Get("/api/v0/auth/session", a.session)
	mux.Post("/api/v0/auth/session/refresh", a.refresh)
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "authentication.API.login")
	defer span.End()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := a.validate.Struct(req); err != nil {
		a.errorResponse(w, http.StatusBadRequest, "e-mail and password are required")
		return
	}

	if !a.limiter.Allow(req.Email) {
		a.logger.Security().AuthnLoginFailure(req.Email, "rate_limited")
		w.Header().Set("Retry-After", "60")
		a.errorResponse(w, http.StatusTooManyRequests, "Muitas tentativas. Aguarde um minuto.")
		return
	}

	// sign-in always lands in a fresh store so the session key rotates
	fresh := a.manager.New()
	if err := fresh.SignIn(ctx, req.Email, req.Password); err != nil {
		a.manager.Forget(fresh.Key())
		a.authErrorResponse(w, err)
		return
	}

	if previous := session.FromContext(ctx); previous != nil {
		previous.SignOut(ctx)
		a.manager.Forget(previous.Key())
	}

	if err := a.cookies.Write(w, fresh.Key()); err != nil {
		a.logger.Errorf("failed to write session cookie: %v", err)
		fresh.SignOut(ctx)
		a.manager.Forget(fresh.Key())
		a.errorResponse(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	a.jsonResponse(w, http.StatusOK, NewSessionResponse(fresh.Snapshot()))
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "authentication.API.logout")
	defer span.End()

	if store := session.FromContext(ctx); store != nil {
		store.SignOut(ctx)
		a.manager.Forget(store.Key())
	}

	a.cookies.Clear(w)
	a.errorResponse(w, http.StatusOK, "signed out")
}

func (a *API) session(w http.ResponseWriter, r *http.Request) {
	a.jsonResponse(w, http.StatusOK, NewSessionResponse(session.SnapshotFromContext(r.Context())))
}

func (a *API) refresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "authentication.API.refresh")
	defer span.End()

	store := session.FromContext(ctx)
	if store == nil {
		a.errorResponse(w, http.StatusUnauthorized, "not signed in")
		return
	}

	if err := store.Refresh(ctx); err != nil {
		if errors.Is(err, session.ErrNotSignedIn) {
			a.errorResponse(w, http.StatusUnauthorized, "not signed in")
			return
		}
		a.logger.Errorf("failed to refresh session: %v", err)
		a.errorResponse(w, http.StatusInternalServerError, "failed to refresh session")
		return
	}

	a.jsonResponse(w, http.StatusOK, NewSessionResponse(store.Snapshot()))
}

func (a *API) authErrorResponse(w http.ResponseWriter, err error) {
	var authErr *session.AuthError
	if !errors.As(err, &authErr) {
		a.logger.Errorf("unexpected sign-in error: %v", err)
		a.errorResponse(w, http.StatusInternalServerError, "failed to sign in")
		return
	}

	switch authErr.Kind {
	case session.InvalidCredentials:
		a.errorResponse(w, http.StatusUnauthorized, authErr.Message)
	case session.NetworkUnavailable:
		w.Header().Set("Retry-After", "5")
		a.errorResponse(w, http.StatusServiceUnavailable, authErr.Message)
	default:
		a.errorResponse(w, http.StatusInternalServerError, authErr.Message)
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

func NewAPI(manager SessionManagerInterface, cookies *CookieCodec, limiter *Limiter, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)
	a.manager = manager
	a.cookies = cookies
	a.limiter = limiter
	a.validate = validator.New(validator.WithRequiredStructEnabled())
	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
