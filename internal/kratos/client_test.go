// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package kratos

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
)

const whoamiBody = `{
	"id": "session-1",
	"active": true,
	"expires_at": "2030-01-01T00:00:00Z",
	"identity": {
		"id": "user-1",
		"schema_id": "default",
		"schema_url": "http://kratos/schemas/default",
		"traits": {"email": "ana@medpay.com", "name": {"first": "Ana", "last": "Souza"}}
	}
}`

func newTestClient(url string) *Client {
	logger := logging.NewNoopLogger()
	return NewClient(url, url, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)
}

func TestClient_ValidateSession(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		body        string
		expectedErr error
	}{
		{name: "active session", status: http.StatusOK, body: whoamiBody},
		{name: "rejected token", status: http.StatusUnauthorized, body: `{"error":{"code":401,"message":"no session"}}`, expectedErr: ErrSessionInvalid},
		{name: "backend down", status: http.StatusServiceUnavailable, body: `{"error":{"code":503,"message":"down"}}`, expectedErr: ErrBackendUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/sessions/whoami" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.Header.Get("X-Session-Token") != "token-1" {
					t.Errorf("expected session token header")
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			s, err := newTestClient(srv.URL).ValidateSession(context.Background(), "token-1")

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if s.IdentityID != "user-1" || s.Email != "ana@medpay.com" || s.Name != "Ana Souza" || s.Token != "token-1" {
				t.Errorf("unexpected session %+v", s)
			}
		})
	}
}

func TestClient_ValidateSessionUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).ValidateSession(context.Background(), "token-1")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestClient_SignOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/self-service/logout/api" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL).SignOut(context.Background(), "token-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_CreateIdentityConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/identities" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"error":{"code":409,"message":"exists"}}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateIdentity(context.Background(), "ana@medpay.com", "Ana")
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	base := errors.New("boom")

	testCases := []struct {
		name     string
		response *http.Response
		expected error
	}{
		{name: "no response", response: nil, expected: ErrBackendUnavailable},
		{name: "bad request", response: &http.Response{StatusCode: http.StatusBadRequest}, expected: ErrInvalidCredentials},
		{name: "unauthorized", response: &http.Response{StatusCode: http.StatusUnauthorized}, expected: ErrInvalidCredentials},
		{name: "gateway timeout", response: &http.Response{StatusCode: http.StatusGatewayTimeout}, expected: ErrBackendUnavailable},
		{name: "server error", response: &http.Response{StatusCode: http.StatusInternalServerError}, expected: base},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := classify(tc.response, base, ErrInvalidCredentials); !errors.Is(err, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestTraitName(t *testing.T) {
	testCases := []struct {
		in       interface{}
		expected string
	}{
		{in: "Ana", expected: "Ana"},
		{in: map[string]interface{}{"first": "Ana", "last": "Souza"}, expected: "Ana Souza"},
		{in: map[string]interface{}{"first": "Ana"}, expected: "Ana"},
		{in: map[string]interface{}{"last": "Souza"}, expected: "Souza"},
		{in: nil, expected: ""},
	}

	for _, tc := range testCases {
		if got := traitName(tc.in); got != tc.expected {
			t.Errorf("expected %q, got %q", tc.expected, got)
		}
	}
}

const loginFlowBody = `{
	"id": "flow-1",
	"type": "api",
	"state": "choose_method",
	"expires_at": "2030-01-01T00:00:00Z",
	"issued_at": "2026-01-01T00:00:00Z",
	"request_url": "http://kratos/self-service/login/api",
	"ui": {"action": "http://kratos/self-service/login?flow=flow-1", "method": "POST", "nodes": []}
}`

func TestClient_SignIn(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		body        string
		expectedErr error
	}{
		{
			name:   "valid credentials",
			status: http.StatusOK,
			body:   `{"session_token": "tok", "session": ` + whoamiBody + `}`,
		},
		{
			name:        "wrong password",
			status:      http.StatusBadRequest,
			body:        loginFlowBody,
			expectedErr: ErrInvalidCredentials,
		},
		{
			name:        "backend down",
			status:      http.StatusServiceUnavailable,
			body:        `{"error":{"code":503,"message":"down"}}`,
			expectedErr: ErrBackendUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")

				switch {
				case r.Method == http.MethodGet && r.URL.Path == "/self-service/login/api":
					fmt.Fprint(w, loginFlowBody)
				case r.Method == http.MethodPost && r.URL.Path == "/self-service/login":
					if r.URL.Query().Get("flow") != "flow-1" {
						t.Errorf("expected flow id, got %q", r.URL.Query().Get("flow"))
					}
					w.WriteHeader(tc.status)
					fmt.Fprint(w, tc.body)
				default:
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
					w.WriteHeader(http.StatusNotFound)
				}
			}))
			defer srv.Close()

			s, err := newTestClient(srv.URL).SignIn(context.Background(), "admin@medpay.com", "wrong-or-right")

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if s.Token != "tok" || s.IdentityID != "user-1" || s.Email != "ana@medpay.com" {
				t.Errorf("unexpected session %+v", s)
			}
		})
	}
}

func TestClient_SignInUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).SignIn(context.Background(), "admin@medpay.com", "secret")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}
