// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package session

import "context"

type contextKey struct{}

var storeContextKey = contextKey{}

// WithStore returns a new context carrying the session Store of the request.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeContextKey, s)
}

// FromContext returns the Store attached to ctx, or nil.
func FromContext(ctx context.Context) *Store {
	s, _ := ctx.Value(storeContextKey).(*Store)
	return s
}

// SnapshotFromContext returns the snapshot of the request's Store; requests
// without a Store see a signed-out snapshot.
func SnapshotFromContext(ctx context.Context) Snapshot {
	if s := FromContext(ctx); s != nil {
		return s.Snapshot()
	}
	return Snapshot{}
}
