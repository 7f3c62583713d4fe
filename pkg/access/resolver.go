// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package access answers which companies an identity may operate on.
// Every function here is pure: it works on the identity and grants a session
// already holds and never performs I/O.
package access

import (
	"github.com/canonical/medpay-admin/internal/types"
)

// CompanyNotFoundPlaceholder is shown when a non-admin asks for the name of a
// company outside its grants.
const CompanyNotFoundPlaceholder = "Empresa não encontrada"

// IsAdmin reports whether the identity holds the admin role.
func IsAdmin(identity *types.Identity) bool {
	return identity != nil && identity.Role == types.RoleAdmin
}

// CanAccessCompany reports whether identity may read or mutate data owned by companyID.
// Admins reach every company. Anyone else needs a grant for it; an undefined
// role, a nil identity or an empty id never grants access.
func CanAccessCompany(identity *types.Identity, grants []types.CompanyGrant, companyID string) bool {
	if IsAdmin(identity) {
		return true
	}

	if identity == nil || companyID == "" || !identity.Role.Valid() {
		return false
	}

	for _, g := range grants {
		if g.CompanyID == companyID {
			return true
		}
	}

	return false
}

// AllowedCompanyIDs returns the unrestricted scope for admins, ignoring any
// grant rows, and the granted set for everyone else.
func AllowedCompanyIDs(identity *types.Identity, grants []types.CompanyGrant) Scope {
	if IsAdmin(identity) {
		return Unrestricted()
	}

	if identity == nil || !identity.Role.Valid() {
		return Restricted()
	}

	ids := make([]string, 0, len(grants))
	for _, g := range grants {
		if g.CompanyID != "" {
			ids = append(ids, g.CompanyID)
		}
	}

	return Restricted(ids...)
}

// CompanyDisplayName returns the name a screen should display for companyID.
// override is false for admins, who use the company's own record.
func CompanyDisplayName(identity *types.Identity, grants []types.CompanyGrant, companyID string) (name string, override bool) {
	if IsAdmin(identity) {
		return "", false
	}

	if identity != nil && identity.Role.Valid() {
		for _, g := range grants {
			if g.CompanyID == companyID && companyID != "" {
				return g.CompanyName, true
			}
		}
	}

	return CompanyNotFoundPlaceholder, true
}
