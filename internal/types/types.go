// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"time"
)

// Role is one of admin, usuario or medico. The zero value is the undefined
// role a session holds when its profile could not be loaded.
type Role string

const (
	RoleUndefined Role = ""
	RoleAdmin     Role = "admin"
	RoleUsuario   Role = "usuario"
	RoleMedico    Role = "medico"
)

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUsuario, RoleMedico:
		return true
	}
	return false
}

type CompanyStatus string

const (
	CompanyActive   CompanyStatus = "active"
	CompanyInactive CompanyStatus = "inactive"
)

// Identity is the authenticated actor held by a session.
type Identity struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	HomeCompanyID string `json:"home_company_id,omitempty"`
	Token         string `json:"token,omitempty"`
	Paid          *bool  `json:"paid,omitempty"`
}

type CompanyGrant struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	CompanyID   string    `json:"company_id" db:"company_id"`
	CompanyName string    `json:"company_name" db:"company_name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Company struct {
	ID        string        `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Status    CompanyStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

type Profile struct {
	UserID        string `db:"user_id"`
	Name          string `db:"name"`
	Email         string `db:"email"`
	Role          Role   `db:"role"`
	HomeCompanyID string `db:"company_id"`
	Paid          *bool  `db:"paid"`
}

// SnapshotRecord is the persisted form of a session.
type SnapshotRecord struct {
	Identity      *Identity      `json:"identity"`
	CompanyGrants []CompanyGrant `json:"company_grants"`
	SavedAt       time.Time      `json:"saved_at"`
	ExpiresAt     time.Time      `json:"expires_at"`
}

// AuthSession is what the identity backend hands back for a valid login.
type AuthSession struct {
	Token      string
	IdentityID string
	Email      string
	Name       string
	ExpiresAt  time.Time
}
