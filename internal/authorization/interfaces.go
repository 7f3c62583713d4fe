// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"

	fga "github.com/openfga/go-sdk"
)

type AuthorizerInterface interface {
	ValidateModel(context.Context) error

	AssignCompanyMember(context.Context, string, string) error
	RemoveCompanyMember(context.Context, string, string) error
	AssignPlatformAdmin(context.Context, string) error
}

type AuthzClientInterface interface {
	ReadModel(context.Context) (*fga.AuthorizationModel, error)
	CompareModel(context.Context, fga.AuthorizationModel) (bool, error)
	WriteTuple(ctx context.Context, user, relation, object string) error
	DeleteTuple(ctx context.Context, user, relation, object string) error
}
