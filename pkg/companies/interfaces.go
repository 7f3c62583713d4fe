// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package companies

import (
	"context"

	"github.com/canonical/medpay-admin/internal/types"
	"github.com/canonical/medpay-admin/pkg/access"
	"github.com/canonical/medpay-admin/pkg/session"
)

type ServiceInterface interface {
	ListCompanies(ctx context.Context, snapshot session.Snapshot, page, size int64) ([]*types.Company, error)
	GetCompany(ctx context.Context, snapshot session.Snapshot, id string) (*types.Company, error)
}

type StorageInterface interface {
	ListCompanies(ctx context.Context, scope access.Scope, page, size int64) ([]*types.Company, error)
	GetCompanyByID(ctx context.Context, id string) (*types.Company, error)
}
