// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/mock/gomock"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/internal/types"
	"github.com/canonical/medpay-admin/pkg/session"
)

//go:generate mockgen -build_flags=--mod=mod -package cache -destination ./mock_redis.go -source=./redis.go

func newTestSnapshotStorage(client RedisClientInterface) *SnapshotStorage {
	logger := logging.NewNoopLogger()
	return NewSnapshotStorage(client, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)
}

func TestSnapshotStorage_Save(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := NewMockRedisClientInterface(ctrl)
	s := newTestSnapshotStorage(client)

	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	record := &types.SnapshotRecord{
		Identity:  &types.Identity{ID: "user-1", Token: "token-1"},
		ExpiresAt: now.Add(2 * time.Hour),
	}

	client.EXPECT().Set(gomock.Any(), "medpay:session:key-1", gomock.Any(), 2*time.Hour).Return(redis.NewStatusResult("OK", nil))

	if err := s.Save(context.Background(), "key-1", record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSnapshotStorage_SaveExpiredClears(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := NewMockRedisClientInterface(ctrl)
	s := newTestSnapshotStorage(client)

	client.EXPECT().Del(gomock.Any(), "medpay:session:key-1").Return(redis.NewIntResult(1, nil))

	record := &types.SnapshotRecord{ExpiresAt: time.Now().Add(-time.Minute)}
	if err := s.Save(context.Background(), "key-1", record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSnapshotStorage_Load(t *testing.T) {
	payload, _ := json.Marshal(&types.SnapshotRecord{Identity: &types.Identity{ID: "user-1"}})
	down := errors.New("connection refused")

	testCases := []struct {
		name        string
		result      *redis.StringCmd
		expectedErr error
	}{
		{name: "stored", result: redis.NewStringResult(string(payload), nil)},
		{name: "absent", result: redis.NewStringResult("", redis.Nil), expectedErr: session.ErrSnapshotNotFound},
		{name: "corrupted", result: redis.NewStringResult("{", nil), expectedErr: session.ErrSnapshotNotFound},
		{name: "redis down", result: redis.NewStringResult("", down), expectedErr: down},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := NewMockRedisClientInterface(ctrl)
			client.EXPECT().Get(gomock.Any(), "medpay:session:key-1").Return(tc.result)

			record, err := newTestSnapshotStorage(client).Load(context.Background(), "key-1")

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if record.Identity == nil || record.Identity.ID != "user-1" {
				t.Errorf("unexpected record %+v", record)
			}
		})
	}
}
