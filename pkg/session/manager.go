// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
)

// Manager keeps one Store per browser session key.
type Manager struct {
	lifetime time.Duration

	auth     AuthBackendInterface
	profiles ProfileStoreInterface
	storage  DurableStorageInterface

	mu     sync.Mutex
	stores map[string]*Store

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Open returns the Store for key, restoring it from durable storage the first
// time the key is seen. The restore has finished when Open returns.
func (m *Manager) Open(ctx context.Context, key string) *Store {
	ctx, span := m.tracer.Start(ctx, "session.Manager.Open")
	defer span.End()

	m.mu.Lock()
	s, ok := m.stores[key]
	if !ok {
		s = m.newStore(key)
		m.stores[key] = s
	}
	m.mu.Unlock()

	// a client disconnecting must not cut the restore short for everyone else
	s.ensureRestored(context.WithoutCancel(ctx))
	s.touch()

	return s
}

// New returns a fresh signed-out Store under a new random key.
func (m *Manager) New() *Store {
	s := m.newStore(uuid.NewString())
	s.markRestored()

	m.mu.Lock()
	m.stores[s.Key()] = s
	m.mu.Unlock()

	return s
}

// Forget drops the in-memory Store for key. Durable storage is untouched.
func (m *Manager) Forget(key string) {
	m.mu.Lock()
	delete(m.stores, key)
	m.mu.Unlock()
}

// EvictIdle forgets every Store unused for longer than maxIdle and returns
// how many were dropped.
func (m *Manager) EvictIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for key, s := range m.stores {
		if s.idleSince().Before(cutoff) {
			delete(m.stores, key)
			evicted++
		}
	}

	return evicted
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.stores)
}

func (m *Manager) newStore(key string) *Store {
	return NewStore(key, m.lifetime, m.auth, m.profiles, m.storage, m.tracer, m.monitor, m.logger)
}

func NewManager(lifetime time.Duration, auth AuthBackendInterface, profiles ProfileStoreInterface, storage DurableStorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Manager {
	m := new(Manager)

	m.lifetime = lifetime
	m.auth = auth
	m.profiles = profiles
	m.storage = storage
	m.stores = make(map[string]*Store)

	m.tracer = tracer
	m.monitor = monitor
	m.logger = logger

	return m
}
