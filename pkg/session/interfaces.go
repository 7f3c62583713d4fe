// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package session

import (
	"context"

	"github.com/canonical/medpay-admin/internal/types"
)

// AuthBackendInterface is the identity backend a Store signs in against.
type AuthBackendInterface interface {
	SignIn(ctx context.Context, email, password string) (*types.AuthSession, error)
	SignOut(ctx context.Context, token string) error
	ValidateSession(ctx context.Context, token string) (*types.AuthSession, error)
}

// ProfileStoreInterface loads the role and company grants of an identity.
type ProfileStoreInterface interface {
	FetchProfile(ctx context.Context, userID string) (*types.Profile, error)
	FetchCompanyGrants(ctx context.Context, userID string) ([]types.CompanyGrant, error)
}

// DurableStorageInterface persists session snapshots across restarts.
// Load returns ErrSnapshotNotFound when nothing is stored under key.
type DurableStorageInterface interface {
	Save(ctx context.Context, key string, record *types.SnapshotRecord) error
	Load(ctx context.Context, key string) (*types.SnapshotRecord, error)
	Clear(ctx context.Context, key string) error
}
