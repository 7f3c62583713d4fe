// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package kratos

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	ory "github.com/ory/client-go"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/internal/types"
)

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrSessionInvalid         = errors.New("session is invalid or expired")
	ErrBackendUnavailable     = errors.New("identity backend unavailable")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
)

type ClientInterface interface {
	SignIn(ctx context.Context, email, password string) (*types.AuthSession, error)
	SignOut(ctx context.Context, token string) error
	ValidateSession(ctx context.Context, token string) (*types.AuthSession, error)
	GetIdentityIDByEmail(ctx context.Context, email string) (string, error)
	CreateIdentity(ctx context.Context, email, name string) (string, error)
	CreateRecoveryLink(ctx context.Context, identityID string, expiresIn string) (string, string, error)
}

var _ ClientInterface = (*Client)(nil)

// Client talks to the public (frontend) and admin APIs of Kratos.
type Client struct {
	public *ory.APIClient
	admin  *ory.APIClient

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewClient(kratosPublicURL, kratosAdminURL string, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Client {
	return &Client{
		public:  newAPIClient(kratosPublicURL),
		admin:   newAPIClient(kratosAdminURL),
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func newAPIClient(url string) *ory.APIClient {
	conf := ory.NewConfiguration()
	conf.Servers = ory.ServerConfigurations{{URL: url}}
	return ory.NewAPIClient(conf)
}

// SignIn runs a native password login flow and returns the issued session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*types.AuthSession, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.SignIn")
	defer span.End()

	flow, r, err := c.public.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		c.reportAvailability(r)
		return nil, classify(r, err, ErrInvalidCredentials)
	}

	body := ory.UpdateLoginFlowWithPasswordMethodAsUpdateLoginFlowBody(
		&ory.UpdateLoginFlowWithPasswordMethod{
			Method:     "password",
			Identifier: email,
			Password:   password,
		},
	)

	login, r, err := c.public.FrontendAPI.UpdateLoginFlow(ctx).Flow(flow.Id).UpdateLoginFlowBody(body).Execute()
	c.reportAvailability(r)
	if err != nil {
		return nil, classify(r, err, ErrInvalidCredentials)
	}

	s := toAuthSession(&login.Session)
	s.Token = login.GetSessionToken()

	return s, nil
}

// SignOut revokes a native session token.
func (c *Client) SignOut(ctx context.Context, token string) error {
	ctx, span := c.tracer.Start(ctx, "kratos.SignOut")
	defer span.End()

	r, err := c.public.FrontendAPI.PerformNativeLogout(ctx).
		PerformNativeLogoutBody(ory.PerformNativeLogoutBody{SessionToken: token}).
		Execute()
	c.reportAvailability(r)
	if err != nil {
		return classify(r, err, ErrSessionInvalid)
	}

	return nil
}

// ValidateSession checks a session token against Kratos and returns the
// session it belongs to.
func (c *Client) ValidateSession(ctx context.Context, token string) (*types.AuthSession, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.ValidateSession")
	defer span.End()

	session, r, err := c.public.FrontendAPI.ToSession(ctx).XSessionToken(token).Execute()
	c.reportAvailability(r)
	if err != nil {
		return nil, classify(r, err, ErrSessionInvalid)
	}

	if !session.GetActive() {
		return nil, ErrSessionInvalid
	}

	s := toAuthSession(session)
	s.Token = token

	return s, nil
}

func (c *Client) GetIdentityIDByEmail(ctx context.Context, email string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.GetIdentityIDByEmail")
	defer span.End()

	// NOTE: empty page token because of https://github.com/ory/sdk/issues/461
	ids, r, err := c.admin.IdentityAPI.ListIdentities(ctx).CredentialsIdentifier(email).PageToken("").Execute()
	if err != nil {
		if r != nil && r.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to list identities: %w", classify(r, err, err))
	}

	if len(ids) == 0 {
		return "", nil
	}

	return ids[0].Id, nil
}

// CreateIdentity registers a new identity with the default schema.
func (c *Client) CreateIdentity(ctx context.Context, email, name string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.CreateIdentity")
	defer span.End()

	traits := map[string]interface{}{
		"email": email,
	}
	if name != "" {
		traits["name"] = name
	}

	body := ory.CreateIdentityBody{
		SchemaId: "default",
		Traits:   traits,
	}

	identity, r, err := c.admin.IdentityAPI.CreateIdentity(ctx).CreateIdentityBody(body).Execute()
	if err != nil {
		if r != nil && r.StatusCode == http.StatusConflict {
			return "", ErrEmailAlreadyRegistered
		}
		return "", fmt.Errorf("failed to create identity: %w", classify(r, err, err))
	}

	return identity.Id, nil
}

// CreateRecoveryLink returns a one-time link and code the new user sets a password with.
func (c *Client) CreateRecoveryLink(ctx context.Context, identityID string, expiresIn string) (string, string, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.CreateRecoveryLink")
	defer span.End()

	body := ory.CreateRecoveryCodeForIdentityBody{
		IdentityId: identityID,
		ExpiresIn:  &expiresIn,
	}

	recoveryCode, r, err := c.admin.IdentityAPI.CreateRecoveryCodeForIdentity(ctx).CreateRecoveryCodeForIdentityBody(body).Execute()
	if err != nil {
		return "", "", fmt.Errorf("failed to create recovery code: %w", classify(r, err, err))
	}

	return recoveryCode.RecoveryLink, recoveryCode.RecoveryCode, nil
}

func (c *Client) reportAvailability(r *http.Response) {
	available := 1.0
	if r == nil || r.StatusCode >= http.StatusInternalServerError {
		available = 0
	}

	c.monitor.SetDependencyAvailability(map[string]string{"component": "kratos"}, available)
}

// classify maps a Kratos failure to a sentinel. rejected is returned when
// Kratos answered but refused the request.
func classify(r *http.Response, err error, rejected error) error {
	if r == nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	switch r.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusGone:
		return rejected
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	return fmt.Errorf("unexpected kratos response %d: %w", r.StatusCode, err)
}

func toAuthSession(s *ory.Session) *types.AuthSession {
	out := new(types.AuthSession)
	out.ExpiresAt = s.GetExpiresAt()

	identity := s.GetIdentity()
	out.IdentityID = identity.Id

	if traits, ok := identity.Traits.(map[string]interface{}); ok {
		if email, ok := traits["email"].(string); ok {
			out.Email = email
		}
		out.Name = traitName(traits["name"])
	}

	if out.ExpiresAt.IsZero() {
		out.ExpiresAt = time.Now().Add(24 * time.Hour)
	}

	return out
}

// traitName accepts both a flat name and the {first, last} shape of the
// Kratos preset schemas.
func traitName(v interface{}) string {
	switch name := v.(type) {
	case string:
		return name
	case map[string]interface{}:
		first, _ := name["first"].(string)
		last, _ := name["last"].(string)
		if last == "" {
			return first
		}
		if first == "" {
			return last
		}
		return first + " " + last
	}
	return ""
}
