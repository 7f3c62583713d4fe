// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/medpay-admin/internal/db"
	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/internal/types"
	"github.com/canonical/medpay-admin/pkg/session"
)

var _ session.DurableStorageInterface = (*SnapshotStorage)(nil)

// SnapshotStorage keeps session snapshots in the session_snapshots table.
type SnapshotStorage struct {
	db db.DBClientInterface

	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
}

func (s *SnapshotStorage) Save(ctx context.Context, key string, record *types.SnapshotRecord) error {
	ctx, span := s.tracer.Start(ctx, "storage.SnapshotStorage.Save")
	defer span.End()

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = s.db.Statement(ctx).
		Insert("session_snapshots").
		Columns("key", "payload", "expires_at").
		Values(key, string(payload), record.ExpiresAt).
		Suffix("ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at, updated_at = NOW()").
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

func (s *SnapshotStorage) Load(ctx context.Context, key string) (*types.SnapshotRecord, error) {
	ctx, span := s.tracer.Start(ctx, "storage.SnapshotStorage.Load")
	defer span.End()

	var payload []byte
	err := s.db.Statement(ctx).
		Select("payload").
		From("session_snapshots").
		Where(sq.Eq{"key": key}).
		Where("expires_at > NOW()").
		QueryRowContext(ctx).
		Scan(&payload)

	if err != nil {
		if isNoRows(err) {
			return nil, session.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	record := new(types.SnapshotRecord)
	if err := json.Unmarshal(payload, record); err != nil {
		s.logger.Warnf("discarding unreadable snapshot %s: %v", key, err)
		return nil, session.ErrSnapshotNotFound
	}

	return record, nil
}

func (s *SnapshotStorage) Clear(ctx context.Context, key string) error {
	ctx, span := s.tracer.Start(ctx, "storage.SnapshotStorage.Clear")
	defer span.End()

	_, err := s.db.Statement(ctx).
		Delete("session_snapshots").
		Where(sq.Eq{"key": key}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	return nil
}

// DeleteExpired removes every snapshot past its expiry and returns how many went.
func (s *SnapshotStorage) DeleteExpired(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "storage.SnapshotStorage.DeleteExpired")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Delete("session_snapshots").
		Where("expires_at <= NOW()").
		ExecContext(ctx)

	if err != nil {
		return 0, fmt.Errorf("failed to delete expired snapshots: %w", err)
	}

	return res.RowsAffected()
}

func NewSnapshotStorage(c db.DBClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *SnapshotStorage {
	s := new(SnapshotStorage)

	s.db = c

	s.logger = logger
	s.tracer = tracer
	s.monitor = monitor

	return s
}
