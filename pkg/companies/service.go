// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package companies

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/storage"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/internal/types"
	"github.com/canonical/medpay-admin/pkg/access"
	"github.com/canonical/medpay-admin/pkg/session"
)

// ErrCompanyNotFound covers both missing companies and companies outside the caller's grants.
var ErrCompanyNotFound = errors.New("company not found")

type Service struct {
	storage StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *Service) ListCompanies(ctx context.Context, snapshot session.Snapshot, page, size int64) ([]*types.Company, error) {
	ctx, span := s.tracer.Start(ctx, "companies.Service.ListCompanies")
	defer span.End()

	scope := access.AllowedCompanyIDs(snapshot.Identity, snapshot.CompanyGrants)
	if scope.IsEmpty() {
		return []*types.Company{}, nil
	}

	companies, err := s.storage.ListCompanies(ctx, scope, page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	for _, c := range companies {
		s.applyDisplayName(snapshot, c)
	}

	return companies, nil
}

func (s *Service) GetCompany(ctx context.Context, snapshot session.Snapshot, id string) (*types.Company, error) {
	ctx, span := s.tracer.Start(ctx, "companies.Service.GetCompany")
	defer span.End()

	if !access.CanAccessCompany(snapshot.Identity, snapshot.CompanyGrants, id) {
		if snapshot.Identity != nil {
			s.logger.Security().AuthzFailure(snapshot.Identity.ID, "company:"+id)
		}
		return nil, ErrCompanyNotFound
	}

	company, err := s.storage.GetCompanyByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	s.applyDisplayName(snapshot, company)

	return company, nil
}

func (s *Service) applyDisplayName(snapshot session.Snapshot, c *types.Company) {
	if name, override := access.CompanyDisplayName(snapshot.Identity, snapshot.CompanyGrants, c.ID); override && name != access.CompanyNotFoundPlaceholder && name != "" {
		c.Name = name
	}
}

func NewService(storage StorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	return &Service{
		storage: storage,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}
