// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/canonical/medpay-admin/internal/db"
	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/internal/types"
	"github.com/canonical/medpay-admin/pkg/access"
)

var _ StorageInterface = (*Storage)(nil)

type Storage struct {
	db db.DBClientInterface

	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
}

func NewStorage(c db.DBClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Storage {
	s := new(Storage)

	s.db = c

	s.logger = logger
	s.tracer = tracer
	s.monitor = monitor

	return s
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

func (s *Storage) FetchProfile(ctx context.Context, userID string) (*types.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "storage.FetchProfile")
	defer span.End()

	var (
		p         types.Profile
		role      string
		companyID sql.NullString
		paid      sql.NullBool
	)

	err := s.db.Statement(ctx).
		Select("user_id", "name", "email", "role", "company_id", "paid").
		From("profiles").
		Where(sq.Eq{"user_id": userID}).
		QueryRowContext(ctx).
		Scan(&p.UserID, &p.Name, &p.Email, &role, &companyID, &paid)

	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.Role = types.Role(role)
	p.HomeCompanyID = companyID.String
	if paid.Valid {
		p.Paid = &paid.Bool
	}

	return &p, nil
}

func (s *Storage) FetchCompanyGrants(ctx context.Context, userID string) ([]types.CompanyGrant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.FetchCompanyGrants")
	defer span.End()

	query := s.db.Statement(ctx).
		Select("g.id", "g.user_id", "g.company_id", "c.name", "g.created_at").
		From("company_grants g").
		Join("companies c ON c.id = g.company_id").
		Where(sq.Eq{"g.user_id": userID}).
		OrderBy("c.name")

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list company grants: %w", err)
	}
	defer rows.Close()

	grants := make([]types.CompanyGrant, 0)
	for rows.Next() {
		var g types.CompanyGrant
		if err := rows.Scan(&g.ID, &g.UserID, &g.CompanyID, &g.CompanyName, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company grant: %w", err)
		}
		grants = append(grants, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return grants, nil
}

func (s *Storage) CreateProfile(ctx context.Context, p *types.Profile) (*types.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateProfile")
	defer span.End()

	var companyID interface{}
	if p.HomeCompanyID != "" {
		companyID = p.HomeCompanyID
	}

	var paid interface{}
	if p.Paid != nil {
		paid = *p.Paid
	}

	_, err := s.db.Statement(ctx).
		Insert("profiles").
		Columns("user_id", "name", "email", "role", "company_id", "paid").
		Values(p.UserID, p.Name, p.Email, string(p.Role), companyID, paid).
		ExecContext(ctx)

	if err != nil {
		err = WrapDuplicateKeyError(err, "profile already exists")
		err = WrapForeignKeyError(err, "home company does not exist")
		return nil, fmt.Errorf("failed to insert profile: %w", err)
	}

	created := *p
	return &created, nil
}

// ListCompanies returns one page of the companies inside scope ordered by name.
func (s *Storage) ListCompanies(ctx context.Context, scope access.Scope, page, size int64) ([]*types.Company, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListCompanies")
	defer span.End()

	query := s.db.Statement(ctx).
		Select("id", "name", "status", "created_at").
		From("companies").
		OrderBy("name")

	query = scope.Apply(query, "id")

	pageSize := db.PageSize(size)
	query = query.Limit(pageSize).Offset(db.Offset(page, pageSize))

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]*types.Company, 0)
	for rows.Next() {
		var (
			c      types.Company
			status string
		)
		if err := rows.Scan(&c.ID, &c.Name, &status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		c.Status = types.CompanyStatus(status)
		companies = append(companies, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company rows: %w", err)
	}

	return companies, nil
}

func (s *Storage) GetCompanyByID(ctx context.Context, id string) (*types.Company, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetCompanyByID")
	defer span.End()

	var (
		c      types.Company
		status string
	)

	err := s.db.Statement(ctx).
		Select("id", "name", "status", "created_at").
		From("companies").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx).
		Scan(&c.ID, &c.Name, &status, &c.CreatedAt)

	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	c.Status = types.CompanyStatus(status)

	return &c, nil
}

func (s *Storage) AddGrant(ctx context.Context, userID, companyID string) (*types.CompanyGrant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.AddGrant")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate grant ID: %w", err)
	}

	var g types.CompanyGrant
	err = s.db.Statement(ctx).
		Insert("company_grants").
		Columns("id", "user_id", "company_id").
		Values(id.String(), userID, companyID).
		Suffix("RETURNING id, user_id, company_id, (SELECT name FROM companies WHERE id = company_id), created_at").
		QueryRowContext(ctx).
		Scan(&g.ID, &g.UserID, &g.CompanyID, &g.CompanyName, &g.CreatedAt)

	if err != nil {
		err = WrapDuplicateKeyError(err, "company already granted")
		err = WrapForeignKeyError(err, "user or company does not exist")
		return nil, fmt.Errorf("failed to insert company grant: %w", err)
	}

	return &g, nil
}

func (s *Storage) RemoveGrant(ctx context.Context, userID, companyID string) error {
	ctx, span := s.tracer.Start(ctx, "storage.RemoveGrant")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Delete("company_grants").
		Where(sq.Eq{"user_id": userID, "company_id": companyID}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete company grant: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}

	if n == 0 {
		return ErrNotFound
	}

	return nil
}
