// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package jobs

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/tracing"
)

//go:generate mockgen -build_flags=--mod=mod -package jobs -destination ./mock_interfaces.go -source=./interfaces.go

func TestScheduler_EvictIdleStores(t *testing.T) {
	testCases := []struct {
		name    string
		maxIdle time.Duration
		calls   int
	}{
		{name: "evicts with configured idle window", maxIdle: 30 * time.Minute, calls: 1},
		{name: "disabled when idle window is zero", maxIdle: 0, calls: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			stores := NewMockIdleEvictorInterface(ctrl)
			stores.EXPECT().EvictIdle(tc.maxIdle).Return(2).Times(tc.calls)

			s := NewScheduler("@every 1m", tc.maxIdle, stores, nil, tracing.NewNoopTracer(), logging.NewNoopLogger())
			s.EvictIdleStores()
		})
	}
}

func TestScheduler_PurgeExpiredSnapshots(t *testing.T) {
	testCases := []struct {
		name string
		n    int64
		err  error
	}{
		{name: "purges rows", n: 3},
		{name: "nothing to purge"},
		{name: "storage error is swallowed", err: errors.New("db down")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			snapshots := NewMockSnapshotPurgerInterface(ctrl)
			snapshots.EXPECT().DeleteExpired(gomock.Any()).Return(tc.n, tc.err)

			s := NewScheduler("@every 1m", time.Minute, NewMockIdleEvictorInterface(ctrl), snapshots, tracing.NewNoopTracer(), logging.NewNoopLogger())
			s.PurgeExpiredSnapshots()
		})
	}
}

func TestScheduler_StartRejectsBadSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := NewScheduler("not a schedule", time.Minute, NewMockIdleEvictorInterface(ctrl), nil, tracing.NewNoopTracer(), logging.NewNoopLogger())
	if err := s.Start(); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stores := NewMockIdleEvictorInterface(ctrl)
	stores.EXPECT().EvictIdle(gomock.Any()).Return(0).AnyTimes()
	snapshots := NewMockSnapshotPurgerInterface(ctrl)
	snapshots.EXPECT().DeleteExpired(gomock.Any()).Return(int64(0), nil).AnyTimes()

	s := NewScheduler("@every 1h", time.Minute, stores, snapshots, tracing.NewNoopTracer(), logging.NewNoopLogger())
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := len(s.cron.Entries()); n != 2 {
		t.Fatalf("expected 2 entries, got %d", n)
	}

	s.Stop()
}
