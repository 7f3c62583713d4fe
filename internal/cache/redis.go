// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/internal/types"
	"github.com/canonical/medpay-admin/pkg/session"
)

const keyPrefix = "medpay:session:"

type Config struct {
	Addr     string
	Password string
	DB       int
}

// RedisClientInterface is the subset of go-redis commands the snapshot storage issues.
type RedisClientInterface interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

var _ session.DurableStorageInterface = (*SnapshotStorage)(nil)

// SnapshotStorage keeps session snapshots in Redis; keys expire with the session.
type SnapshotStorage struct {
	client RedisClientInterface

	now func() time.Time

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *SnapshotStorage) Save(ctx context.Context, key string, record *types.SnapshotRecord) error {
	ctx, span := s.tracer.Start(ctx, "cache.SnapshotStorage.Save")
	defer span.End()

	ttl := record.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.Clear(ctx, key)
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+key, payload, ttl).Err(); err != nil {
		s.monitor.SetDependencyAvailability(map[string]string{"component": "redis"}, 0)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

func (s *SnapshotStorage) Load(ctx context.Context, key string) (*types.SnapshotRecord, error) {
	ctx, span := s.tracer.Start(ctx, "cache.SnapshotStorage.Load")
	defer span.End()

	payload, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrSnapshotNotFound
		}
		s.monitor.SetDependencyAvailability(map[string]string{"component": "redis"}, 0)
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
	ctx, span := s.tracer.Start(ctx, "cache.SnapshotStorage.Clear")
	defer span.End()

	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	return nil
}

func NewSnapshotStorage(client RedisClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *SnapshotStorage {
	s := new(SnapshotStorage)

	s.client = client
	s.now = time.Now

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
