// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package grants

import (
	"context"

	"github.com/canonical/medpay-admin/internal/types"
)

type ServiceInterface interface {
	ListGrants(ctx context.Context, userID string) ([]types.CompanyGrant, error)
	Grant(ctx context.Context, userID, companyID string) (*types.CompanyGrant, error)
	Revoke(ctx context.Context, userID, companyID string) error
	ProvisionUser(ctx context.Context, req *ProvisionRequest) (*ProvisionResult, error)
}

type StorageInterface interface {
	FetchCompanyGrants(ctx context.Context, userID string) ([]types.CompanyGrant, error)
	AddGrant(ctx context.Context, userID, companyID string) (*types.CompanyGrant, error)
	RemoveGrant(ctx context.Context, userID, companyID string) error
	CreateProfile(ctx context.Context, p *types.Profile) (*types.Profile, error)
}

type AuthzInterface interface {
	AssignCompanyMember(ctx context.Context, companyID, userID string) error
	RemoveCompanyMember(ctx context.Context, companyID, userID string) error
	AssignPlatformAdmin(ctx context.Context, userID string) error
}

type KratosClientInterface interface {
	CreateIdentity(ctx context.Context, email, name string) (string, error)
	CreateRecoveryLink(ctx context.Context, identityID string, expiresIn string) (string, string, error)
}
