// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
)

func newMockClient(t *testing.T) (*DBClient, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	logger := logging.NewNoopLogger()
	return NewDBClientFromDB(conn, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger), mock
}

func TestDBClient_WithTxCommits(t *testing.T) {
	c, mock := newMockClient(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM company_grants").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := c.WithTx(context.Background(), func(ctx context.Context) error {
		_, err := c.Statement(ctx).Delete("company_grants").ExecContext(ctx)
		return err
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDBClient_WithTxRollsBack(t *testing.T) {
	c, mock := newMockClient(t)
	fail := errors.New("fail")

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM company_grants").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := c.WithTx(context.Background(), func(ctx context.Context) error {
		if _, err := c.Statement(ctx).Delete("company_grants").ExecContext(ctx); err != nil {
			return err
		}
		return fail
	})

	if !errors.Is(err, fail) {
		t.Fatalf("expected %v, got %v", fail, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDBClient_WithTxWithoutStatements(t *testing.T) {
	c, mock := newMockClient(t)

	if err := c.WithTx(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// no Begin expected: the transaction is lazy
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTransactionMiddleware(t *testing.T) {
	testCases := []struct {
		name   string
		method string
		status int
		setup  func(sqlmock.Sqlmock)
	}{
		{
			name:   "successful write commits",
			method: http.MethodPut,
			status: http.StatusOK,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM company_grants").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:   "failed write rolls back",
			method: http.MethodDelete,
			status: http.StatusConflict,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM company_grants").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectRollback()
			},
		},
		{
			name:   "read skips the transaction",
			method: http.MethodGet,
			status: http.StatusOK,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM company_grants").WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, mock := newMockClient(t)
			tc.setup(mock)

			handler := TransactionMiddleware(c, logging.NewNoopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := r.Context()
				if _, err := c.Statement(ctx).Delete("company_grants").ExecContext(ctx); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				w.WriteHeader(tc.status)
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tc.method, "/api/v0/users/u-1/grants/c-1", nil))

			if rr.Code != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, rr.Code)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestPagination(t *testing.T) {
	if got := PageSize(0); got != defaultPageSize {
		t.Errorf("expected default page size, got %d", got)
	}
	if got := Offset(3, 10); got != 20 {
		t.Errorf("expected offset 20, got %d", got)
	}
	if got := Offset(-1, 10); got != 0 {
		t.Errorf("expected offset 0, got %d", got)
	}
}

func TestDBClient_Ping(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer conn.Close()

	logger := logging.NewNoopLogger()
	c := NewDBClientFromDB(conn, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

	mock.ExpectPing()
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectPing().WillReturnError(errors.New("down"))
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
