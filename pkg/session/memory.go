// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package session

import (
	"context"
	"sync"
	"time"

	"github.com/canonical/medpay-admin/internal/types"
)

var _ DurableStorageInterface = (*MemoryStorage)(nil)

// MemoryStorage keeps snapshots in process memory. Used for development and tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string]types.SnapshotRecord
}

func (m *MemoryStorage) Save(_ context.Context, key string, record *types.SnapshotRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[key] = copyRecord(record)
	return nil
}

func (m *MemoryStorage) Load(_ context.Context, key string) (*types.SnapshotRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[key]
	if !ok {
		return nil, ErrSnapshotNotFound
	}

	out := copyRecord(&r)
	return &out, nil
}

func (m *MemoryStorage) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, key)
	return nil
}

// DeleteExpired drops records whose expiry has passed.
func (m *MemoryStorage) DeleteExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var n int64
	for key, r := range m.records {
		if !r.ExpiresAt.After(now) {
			delete(m.records, key)
			n++
		}
	}
	return n, nil
}

func copyRecord(r *types.SnapshotRecord) types.SnapshotRecord {
	out := *r
	if r.Identity != nil {
		identity := *r.Identity
		out.Identity = &identity
	}
	out.CompanyGrants = append([]types.CompanyGrant(nil), r.CompanyGrants...)
	return out
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[string]types.SnapshotRecord)}
}
