// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package access

import (
	"reflect"
	"testing"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/medpay-admin/internal/types"
)

var (
	admin   = &types.Identity{ID: "u-admin", Email: "admin@medpay.com", Role: types.RoleAdmin}
	usuario = &types.Identity{ID: "u-1", Email: "ana@medpay.com", Role: types.RoleUsuario}
	medico  = &types.Identity{ID: "u-2", Email: "joao@medpay.com", Role: types.RoleMedico}
	noRole  = &types.Identity{ID: "u-3", Email: "x@medpay.com"}

	grantsA = []types.CompanyGrant{{ID: "g-1", UserID: "u-1", CompanyID: "company-a", CompanyName: "Clinica A"}}
)

func TestIsAdmin(t *testing.T) {
	testCases := []struct {
		name     string
		identity *types.Identity
		expected bool
	}{
		{name: "admin", identity: admin, expected: true},
		{name: "usuario", identity: usuario, expected: false},
		{name: "medico", identity: medico, expected: false},
		{name: "undefined role", identity: noRole, expected: false},
		{name: "nil identity", identity: nil, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAdmin(tc.identity); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestCanAccessCompany(t *testing.T) {
	testCases := []struct {
		name      string
		identity  *types.Identity
		grants    []types.CompanyGrant
		companyID string
		expected  bool
	}{
		{name: "admin without grant rows", identity: admin, companyID: "company-b", expected: true},
		{name: "admin with unrelated grant rows", identity: admin, grants: grantsA, companyID: "company-z", expected: true},
		{name: "admin with empty id", identity: admin, companyID: "", expected: true},
		{name: "usuario granted company", identity: usuario, grants: grantsA, companyID: "company-a", expected: true},
		{name: "usuario other company", identity: usuario, grants: grantsA, companyID: "company-b", expected: false},
		{name: "usuario empty id", identity: usuario, grants: grantsA, companyID: "", expected: false},
		{name: "medico without grants", identity: medico, companyID: "company-a", expected: false},
		{name: "undefined role with grants", identity: noRole, grants: grantsA, companyID: "company-a", expected: false},
		{name: "nil identity", identity: nil, grants: grantsA, companyID: "company-a", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanAccessCompany(tc.identity, tc.grants, tc.companyID); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestAllowedCompanyIDs(t *testing.T) {
	multi := []types.CompanyGrant{
		{CompanyID: "company-b", CompanyName: "B"},
		{CompanyID: "company-a", CompanyName: "A"},
	}

	testCases := []struct {
		name         string
		identity     *types.Identity
		grants       []types.CompanyGrant
		unrestricted bool
		ids          []string
	}{
		{name: "admin is unrestricted", identity: admin, unrestricted: true},
		{name: "admin with grant rows stays unrestricted", identity: admin, grants: multi, unrestricted: true},
		{name: "usuario enumerated", identity: usuario, grants: multi, ids: []string{"company-a", "company-b"}},
		{name: "medico with zero grants sees nothing", identity: medico, ids: []string{}},
		{name: "undefined role fails closed", identity: noRole, grants: multi, ids: []string{}},
		{name: "nil identity", identity: nil, ids: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			scope := AllowedCompanyIDs(tc.identity, tc.grants)

			if scope.IsUnrestricted() != tc.unrestricted {
				t.Fatalf("expected unrestricted %v, got %v", tc.unrestricted, scope.IsUnrestricted())
			}

			if tc.unrestricted {
				if scope.IDs() != nil {
					t.Errorf("expected no enumerated ids, got %v", scope.IDs())
				}
				return
			}

			if !reflect.DeepEqual(scope.IDs(), tc.ids) {
				t.Errorf("expected ids %v, got %v", tc.ids, scope.IDs())
			}

			if len(tc.ids) == 0 && !scope.IsEmpty() {
				t.Errorf("expected empty scope")
			}
		})
	}
}

func TestCompanyDisplayName(t *testing.T) {
	testCases := []struct {
		name      string
		identity  *types.Identity
		companyID string
		expected  string
		override  bool
	}{
		{name: "admin gets no override", identity: admin, companyID: "company-a", expected: "", override: false},
		{name: "usuario granted", identity: usuario, companyID: "company-a", expected: "Clinica A", override: true},
		{name: "usuario not granted", identity: usuario, companyID: "company-b", expected: CompanyNotFoundPlaceholder, override: true},
		{name: "undefined role", identity: noRole, companyID: "company-a", expected: CompanyNotFoundPlaceholder, override: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			name, override := CompanyDisplayName(tc.identity, grantsA, tc.companyID)
			if name != tc.expected || override != tc.override {
				t.Errorf("expected (%q, %v), got (%q, %v)", tc.expected, tc.override, name, override)
			}
		})
	}
}

func TestScope_Apply(t *testing.T) {
	base := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).Select("id", "name").From("companies")

	testCases := []struct {
		name         string
		scope        Scope
		expectedSQL  string
		expectedArgs []interface{}
	}{
		{
			name:        "unrestricted",
			scope:       Unrestricted(),
			expectedSQL: "SELECT id, name FROM companies",
		},
		{
			name:        "empty",
			scope:       Restricted(),
			expectedSQL: "SELECT id, name FROM companies WHERE 1 = 0",
		},
		{
			name:         "enumerated",
			scope:        Restricted("company-b", "company-a"),
			expectedSQL:  "SELECT id, name FROM companies WHERE id IN ($1,$2)",
			expectedArgs: []interface{}{"company-a", "company-b"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, args, err := tc.scope.Apply(base, "id").ToSql()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if query != tc.expectedSQL {
				t.Errorf("expected %q, got %q", tc.expectedSQL, query)
			}

			if len(args) != len(tc.expectedArgs) {
				t.Fatalf("expected args %v, got %v", tc.expectedArgs, args)
			}
			for i := range args {
				if args[i] != tc.expectedArgs[i] {
					t.Errorf("expected arg %d to be %v, got %v", i, tc.expectedArgs[i], args[i])
				}
			}
		})
	}
}

func TestScope_Contains(t *testing.T) {
	if !Unrestricted().Contains("anything") {
		t.Errorf("unrestricted scope must contain every company")
	}

	if Restricted().Contains("company-a") {
		t.Errorf("empty scope must contain nothing")
	}

	var zero Scope
	if !zero.IsEmpty() || zero.Contains("company-a") {
		t.Errorf("zero scope must be empty")
	}

	if !Restricted("company-a").Contains("company-a") {
		t.Errorf("expected company-a in scope")
	}
}

func TestScope_MarshalJSON(t *testing.T) {
	out, err := Restricted("company-a").MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(out) != `{"unrestricted":false,"company_ids":["company-a"]}` {
		t.Errorf("unexpected json %s", out)
	}

	out, _ = Unrestricted().MarshalJSON()
	if string(out) != `{"unrestricted":true,"company_ids":null}` {
		t.Errorf("unexpected json %s", out)
	}
}
