// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package grants

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/medpay-admin/internal/kratos"
	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/storage"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/internal/types"
)

var (
	ErrGrantExists            = errors.New("company grant already exists")
	ErrGrantNotFound          = errors.New("company grant not found")
	ErrUnknownUserOrCompany   = errors.New("user or company does not exist")
	ErrEmailAlreadyRegistered = errors.New("e-mail already registered")
	ErrInvalidRole            = errors.New("invalid role")
)

type ProvisionRequest struct {
	Email     string     `json:"email" validate:"required,email"`
	Name      string     `json:"name" validate:"required"`
	Role      types.Role `json:"role" validate:"required,oneof=admin usuario medico"`
	CompanyID string     `json:"company_id,omitempty"`
	Paid      *bool      `json:"paid,omitempty"`
}

type ProvisionResult struct {
	UserID       string              `json:"user_id"`
	RecoveryLink string              `json:"recovery_link"`
	RecoveryCode string              `json:"recovery_code"`
	Grant        *types.CompanyGrant `json:"grant,omitempty"`
}

type Service struct {
	storage StorageInterface
	authz   AuthzInterface
	kratos  KratosClientInterface

	recoveryLinkLifetime string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *Service) ListGrants(ctx context.Context, userID string) ([]types.CompanyGrant, error) {
	ctx, span := s.tracer.Start(ctx, "grants.Service.ListGrants")
	defer span.End()

	grants, err := s.storage.FetchCompanyGrants(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}

	return grants, nil
}

// Grant gives a user access to a company and mirrors it to the authorization
// store. A mirror failure is returned so the surrounding transaction rolls back.
func (s *Service) Grant(ctx context.Context, userID, companyID string) (*types.CompanyGrant, error) {
	ctx, span := s.tracer.Start(ctx, "grants.Service.Grant")
	defer span.End()

	grant, err := s.storage.AddGrant(ctx, userID, companyID)
	if err != nil {
		return nil, mapStorageError(err)
	}

	if err := s.authz.AssignCompanyMember(ctx, companyID, userID); err != nil {
		return nil, fmt.Errorf("failed to mirror grant: %w", err)
	}

	s.logger.Infof("granted company %s to user %s", companyID, userID)

	return grant, nil
}

func (s *Service) Revoke(ctx context.Context, userID, companyID string) error {
	ctx, span := s.tracer.Start(ctx, "grants.Service.Revoke")
	defer span.End()

	if err := s.storage.RemoveGrant(ctx, userID, companyID); err != nil {
		return mapStorageError(err)
	}

	if err := s.authz.RemoveCompanyMember(ctx, companyID, userID); err != nil {
		return fmt.Errorf("failed to mirror revocation: %w", err)
	}

	s.logger.Infof("revoked company %s from user %s", companyID, userID)

	return nil
}

// ProvisionUser registers a new identity, stores its profile, optionally
// grants it a company and returns the recovery link the user activates the
// account with.
func (s *Service) ProvisionUser(ctx context.Context, req *ProvisionRequest) (*ProvisionResult, error) {
	ctx, span := s.tracer.Start(ctx, "grants.Service.ProvisionUser")
	defer span.End()

	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}

	identityID, err := s.kratos.CreateIdentity(ctx, req.Email, req.Name)
	if err != nil {
		if errors.Is(err, kratos.ErrEmailAlreadyRegistered) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	profile := &types.Profile{
		UserID:        identityID,
		Name:          req.Name,
		Email:         req.Email,
		Role:          req.Role,
		HomeCompanyID: req.CompanyID,
		Paid:          req.Paid,
	}

	if _, err := s.storage.CreateProfile(ctx, profile); err != nil {
		s.logger.Warnf("identity %s created without a profile: %v", identityID, err)
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, mapStorageError(err)
	}

	result := &ProvisionResult{UserID: identityID}

	if req.Role == types.RoleAdmin {
		if err := s.authz.AssignPlatformAdmin(ctx, identityID); err != nil {
			return nil, fmt.Errorf("failed to mirror admin role: %w", err)
		}
	} else if req.CompanyID != "" {
		if result.Grant, err = s.Grant(ctx, identityID, req.CompanyID); err != nil {
			return nil, err
		}
	}

	result.RecoveryLink, result.RecoveryCode, err = s.kratos.CreateRecoveryLink(ctx, identityID, s.recoveryLinkLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to create recovery link: %w", err)
	}

	s.logger.Infof("provisioned %s user %s", req.Role, identityID)

	return result, nil
}

func mapStorageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrDuplicateKey):
		return fmt.Errorf("%w: %v", ErrGrantExists, err)
	case errors.Is(err, storage.ErrForeignKeyViolation):
		return fmt.Errorf("%w: %v", ErrUnknownUserOrCompany, err)
	case errors.Is(err, storage.ErrNotFound):
		return ErrGrantNotFound
	}
	return err
}

func NewService(
	storage StorageInterface,
	authz AuthzInterface,
	kratos KratosClientInterface,
	recoveryLinkLifetime string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage:              storage,
		authz:                authz,
		kratos:               kratos,
		recoveryLinkLifetime: recoveryLinkLifetime,
		tracer:               tracer,
		monitor:              monitor,
		logger:               logger,
	}
}
