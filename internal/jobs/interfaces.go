// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package jobs

import (
	"context"
	"time"
)

type IdleEvictorInterface interface {
	EvictIdle(time.Duration) int
}

type SnapshotPurgerInterface interface {
	DeleteExpired(context.Context) (int64, error)
}
