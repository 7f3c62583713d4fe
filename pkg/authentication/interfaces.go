// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"

	"github.com/canonical/medpay-admin/pkg/session"
)

type SessionManagerInterface interface {
	// Open returns the restored Store for a session key
	Open(context.Context, string) *session.Store
	// New returns a signed-out Store under a fresh key
	New() *session.Store
	Forget(string)
}
