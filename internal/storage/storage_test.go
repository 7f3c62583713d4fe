// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/canonical/medpay-admin/internal/db"
	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/internal/types"
	"github.com/canonical/medpay-admin/pkg/access"
)

func newMockDB(t *testing.T) (*db.DBClient, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	logger := logging.NewNoopLogger()
	return db.NewDBClientFromDB(conn, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger), mock
}

func newTestStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	c, mock := newMockDB(t)
	logger := logging.NewNoopLogger()
	return NewStorage(c, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger), mock
}

func TestStorage_FetchProfile(t *testing.T) {
	query := regexp.QuoteMeta("SELECT user_id, name, email, role, company_id, paid FROM profiles WHERE user_id = $1")

	testCases := []struct {
		name        string
		setup       func(sqlmock.Sqlmock)
		expectedErr error
		expected    *types.Profile
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("user-1").WillReturnRows(
					sqlmock.NewRows([]string{"user_id", "name", "email", "role", "company_id", "paid"}).
						AddRow("user-1", "Ana", "ana@medpay.com", "usuario", "company-a", true),
				)
			},
			expected: &types.Profile{UserID: "user-1", Name: "Ana", Email: "ana@medpay.com", Role: types.RoleUsuario, HomeCompanyID: "company-a"},
		},
		{
			name: "nullable columns",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("user-1").WillReturnRows(
					sqlmock.NewRows([]string{"user_id", "name", "email", "role", "company_id", "paid"}).
						AddRow("user-1", "Ana", "ana@medpay.com", "admin", nil, nil),
				)
			},
			expected: &types.Profile{UserID: "user-1", Name: "Ana", Email: "ana@medpay.com", Role: types.RoleAdmin},
		},
		{
			name: "not found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("user-1").WillReturnError(sql.ErrNoRows)
			},
			expectedErr: ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newTestStorage(t)
			tc.setup(mock)

			p, err := s.FetchProfile(context.Background(), "user-1")

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if p.UserID != tc.expected.UserID || p.Role != tc.expected.Role || p.HomeCompanyID != tc.expected.HomeCompanyID {
				t.Errorf("expected %+v, got %+v", tc.expected, p)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestStorage_FetchCompanyGrants(t *testing.T) {
	s, mock := newTestStorage(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM company_grants g JOIN companies c ON c.id = g.company_id WHERE g.user_id = $1 ORDER BY c.name")).
		WithArgs("user-1").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "user_id", "company_id", "name", "created_at"}).
				AddRow("g-1", "user-1", "company-a", "Clinica A", now).
				AddRow("g-2", "user-1", "company-b", "Clinica B", now),
		)

	grants, err := s.FetchCompanyGrants(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(grants) != 2 || grants[0].CompanyName != "Clinica A" || grants[1].CompanyID != "company-b" {
		t.Errorf("unexpected grants %+v", grants)
	}
}

func TestStorage_FetchCompanyGrantsEmpty(t *testing.T) {
	s, mock := newTestStorage(t)

	mock.ExpectQuery("FROM company_grants").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "company_id", "name", "created_at"}))

	grants, err := s.FetchCompanyGrants(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if grants == nil || len(grants) != 0 {
		t.Errorf("expected an empty, non nil slice, got %#v", grants)
	}
}

func TestStorage_ListCompanies(t *testing.T) {
	columns := []string{"id", "name", "status", "created_at"}

	testCases := []struct {
		name  string
		scope access.Scope
		setup func(sqlmock.Sqlmock)
		count int
	}{
		{
			name:  "unrestricted",
			scope: access.Unrestricted(),
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, status, created_at FROM companies ORDER BY name LIMIT 100 OFFSET 0")).
					WillReturnRows(sqlmock.NewRows(columns).
						AddRow("company-a", "Clinica A", "active", time.Now()).
						AddRow("company-b", "Clinica B", "inactive", time.Now()))
			},
			count: 2,
		},
		{
			name:  "enumerated",
			scope: access.Restricted("company-a"),
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM companies WHERE id IN ($1) ORDER BY name")).
					WithArgs("company-a").
					WillReturnRows(sqlmock.NewRows(columns).AddRow("company-a", "Clinica A", "active", time.Now()))
			},
			count: 1,
		},
		{
			name:  "empty scope",
			scope: access.Restricted(),
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM companies WHERE 1 = 0")).
					WillReturnRows(sqlmock.NewRows(columns))
			},
			count: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newTestStorage(t)
			tc.setup(mock)

			companies, err := s.ListCompanies(context.Background(), tc.scope, 1, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(companies) != tc.count {
				t.Errorf("expected %d companies, got %d", tc.count, len(companies))
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestStorage_GetCompanyByID(t *testing.T) {
	s, mock := newTestStorage(t)

	mock.ExpectQuery("FROM companies WHERE id").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	if _, err := s.GetCompanyByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStorage_AddGrant(t *testing.T) {
	testCases := []struct {
		name        string
		dbErr       error
		expectedErr error
	}{
		{name: "created"},
		{name: "duplicate", dbErr: &pgconn.PgError{Code: pgErrCodeUniqueViolation}, expectedErr: ErrDuplicateKey},
		{name: "unknown company", dbErr: &pgconn.PgError{Code: pgErrCodeForeignKeyViolation}, expectedErr: ErrForeignKeyViolation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newTestStorage(t)

			exp := mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO company_grants (id,user_id,company_id) VALUES ($1,$2,$3) RETURNING")).
				WithArgs(sqlmock.AnyArg(), "user-1", "company-a")

			if tc.dbErr != nil {
				exp.WillReturnError(tc.dbErr)
			} else {
				exp.WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "company_id", "name", "created_at"}).
					AddRow("g-1", "user-1", "company-a", "Clinica A", time.Now()))
			}

			g, err := s.AddGrant(context.Background(), "user-1", "company-a")

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if g.CompanyName != "Clinica A" {
				t.Errorf("expected joined company name, got %q", g.CompanyName)
			}
		})
	}
}

func TestStorage_RemoveGrant(t *testing.T) {
	testCases := []struct {
		name        string
		affected    int64
		expectedErr error
	}{
		{name: "removed", affected: 1},
		{name: "not granted", affected: 0, expectedErr: ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newTestStorage(t)

			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM company_grants WHERE company_id = $1 AND user_id = $2")).
				WithArgs("company-a", "user-1").
				WillReturnResult(sqlmock.NewResult(0, tc.affected))

			err := s.RemoveGrant(context.Background(), "user-1", "company-a")
			if !errors.Is(err, tc.expectedErr) {
				t.Errorf("expected error %v, got %v", tc.expectedErr, err)
			}
		})
	}
}

func TestStorage_CreateProfileDuplicate(t *testing.T) {
	s, mock := newTestStorage(t)

	mock.ExpectExec("INSERT INTO profiles").
		WillReturnError(&pgconn.PgError{Code: pgErrCodeUniqueViolation})

	_, err := s.CreateProfile(context.Background(), &types.Profile{UserID: "user-1", Email: "ana@medpay.com", Role: types.RoleUsuario})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}
