// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/tracing"
)

const stopTimeout = 5 * time.Second

// Scheduler runs the periodic session sweeps.
type Scheduler struct {
	cron *cron.Cron

	schedule string
	maxIdle  time.Duration

	stores    IdleEvictorInterface
	snapshots SnapshotPurgerInterface

	tracer tracing.TracingInterface
	logger logging.LoggerInterface
}

// Start registers the sweeps and starts the cron loop.
// A nil purger skips the snapshot sweep, redis expires its own keys.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.EvictIdleStores); err != nil {
		return err
	}

	if s.snapshots != nil {
		if _, err := s.cron.AddFunc(s.schedule, s.PurgeExpiredSnapshots); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Infof("session sweeps scheduled with %q", s.schedule)

	return nil
}

// Stop waits for running jobs, bounded by a timeout.
func (s *Scheduler) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("timed out waiting for session sweeps to finish")
	}
}

func (s *Scheduler) EvictIdleStores() {
	if s.maxIdle <= 0 {
		return
	}

	if n := s.stores.EvictIdle(s.maxIdle); n > 0 {
		s.logger.Debugf("evicted %d idle session stores", n)
	}
}

func (s *Scheduler) PurgeExpiredSnapshots() {
	ctx, span := s.tracer.Start(context.Background(), "jobs.Scheduler.PurgeExpiredSnapshots")
	defer span.End()

	n, err := s.snapshots.DeleteExpired(ctx)
	if err != nil {
		s.logger.Errorf("failed to purge expired session snapshots: %v", err)
		return
	}

	if n > 0 {
		s.logger.Debugf("purged %d expired session snapshots", n)
	}
}

func NewScheduler(schedule string, maxIdle time.Duration, stores IdleEvictorInterface, snapshots SnapshotPurgerInterface, tracer tracing.TracingInterface, logger logging.LoggerInterface) *Scheduler {
	s := new(Scheduler)
	s.cron = cron.New()
	s.schedule = schedule
	s.maxIdle = maxIdle
	s.stores = stores
	s.snapshots = snapshots
	s.tracer = tracer
	s.logger = logger

	return s
}
