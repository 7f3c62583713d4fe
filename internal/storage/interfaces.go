// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"

	"github.com/canonical/medpay-admin/internal/types"
	"github.com/canonical/medpay-admin/pkg/access"
)

type StorageInterface interface {
	FetchProfile(ctx context.Context, userID string) (*types.Profile, error)
	FetchCompanyGrants(ctx context.Context, userID string) ([]types.CompanyGrant, error)
	CreateProfile(ctx context.Context, p *types.Profile) (*types.Profile, error)
	ListCompanies(ctx context.Context, scope access.Scope, page, size int64) ([]*types.Company, error)
	GetCompanyByID(ctx context.Context, id string) (*types.Company, error)
	AddGrant(ctx context.Context, userID, companyID string) (*types.CompanyGrant, error)
	RemoveGrant(ctx context.Context, userID, companyID string) error
}
