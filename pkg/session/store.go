// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/canonical/medpay-admin/internal/kratos"
	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/internal/types"
)

// Snapshot is the read-only view of a Store handed to consumers.
type Snapshot struct {
	Identity      *types.Identity
	CompanyGrants []types.CompanyGrant
	IsLoading     bool
}

func (s Snapshot) SignedIn() bool {
	return s.Identity != nil
}

// Store owns the signed-in identity of one browser session.
type Store struct {
	key      string
	lifetime time.Duration

	auth     AuthBackendInterface
	profiles ProfileStoreInterface
	storage  DurableStorageInterface

	// writeMu orders state changes together with their durable storage writes.
	writeMu sync.Mutex

	mu        sync.RWMutex
	gen       uint64
	identity  *types.Identity
	grants    []types.CompanyGrant
	expiresAt time.Time
	loading   bool
	restored  bool
	lastSeen  time.Time

	initOnce sync.Once

	now func() time.Time

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *Store) Key() string {
	return s.key
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{IsLoading: s.loading}

	if s.identity != nil {
		identity := *s.identity
		snap.Identity = &identity
		snap.CompanyGrants = append([]types.CompanyGrant(nil), s.grants...)
	}

	return snap
}

// SignIn authenticates against the backend and loads the profile and grants
// of the identity. A declined sign-in returns an *AuthError and leaves the
// Store untouched.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	ctx, span := s.tracer.Start(ctx, "session.Store.SignIn")
	defer span.End()

	authSession, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		authErr := s.authError(err)
		s.reportAvailability(authErr.Kind != NetworkUnavailable)
		s.logger.Security().AuthnLoginFailure(email, authErr.Kind.String())
		return authErr
	}
	s.reportAvailability(true)

	identity, grants := s.load(ctx, authSession)

	expiresAt := authSession.ExpiresAt
	if expiresAt.IsZero() || expiresAt.After(s.now().Add(s.lifetime)) {
		expiresAt = s.now().Add(s.lifetime)
	}

	s.writeMu.Lock()
	s.set(identity, grants, expiresAt)
	s.persist(ctx)
	s.writeMu.Unlock()

	s.logger.Security().AuthnLoginSuccess(identity.ID)

	return nil
}

// SignOut revokes the backend session and clears all state. Failures are
// logged, sign-out itself always completes.
func (s *Store) SignOut(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "session.Store.SignOut")
	defer span.End()

	s.writeMu.Lock()
	s.mu.RLock()
	identity := s.identity
	s.mu.RUnlock()

	s.set(nil, nil, time.Time{})
	if err := s.storage.Clear(ctx, s.key); err != nil {
		s.logger.Errorf("failed to clear session snapshot: %v", err)
	}
	s.writeMu.Unlock()

	if identity != nil && identity.Token != "" {
		if err := s.auth.SignOut(ctx, identity.Token); err != nil {
			s.logger.Warnf("failed to revoke backend session: %v", err)
		}
	}

	if identity != nil {
		s.logger.Security().AuthnLogout(identity.ID)
	}
}

// RestoreSession rebuilds the Store from durable storage. A snapshot the
// backend rejects is cleared silently; the Store ends up signed out and no
// error reaches the caller.
func (s *Store) RestoreSession(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "session.Store.RestoreSession")
	defer span.End()

	s.mu.Lock()
	s.loading = !s.restored
	gen := s.gen
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.restored = true
		s.mu.Unlock()
	}()

	record, err := s.storage.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrSnapshotNotFound) {
			s.logger.Errorf("failed to load session snapshot: %v", err)
		}
		s.set(nil, nil, time.Time{})
		return
	}

	if record.Identity == nil || record.Identity.Token == "" {
		s.invalidate(ctx, "snapshot without credentials")
		return
	}

	if !record.ExpiresAt.IsZero() && !record.ExpiresAt.After(s.now()) {
		s.invalidate(ctx, "snapshot expired")
		return
	}

	authSession, err := s.auth.ValidateSession(ctx, record.Identity.Token)
	switch {
	case err == nil:
	case errors.Is(err, kratos.ErrSessionInvalid):
		s.invalidate(ctx, "token rejected")
		return
	default:
		// storage is kept so a later restore can succeed once the backend is back
		s.logger.Warnf("could not validate stored session: %v", err)
		s.set(nil, nil, time.Time{})
		return
	}

	identity, grants := s.load(ctx, authSession)

	if !s.replaceIf(ctx, gen, identity, grants, record.ExpiresAt) {
		s.logger.Debugf("session %s changed during restore, result dropped", identity.ID)
		return
	}

	s.logger.Security().SessionRestored(identity.ID)
}

// Refresh refetches the profile and grants of the signed-in identity.
func (s *Store) Refresh(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "session.Store.Refresh")
	defer span.End()

	s.mu.RLock()
	current := s.identity
	expiresAt := s.expiresAt
	gen := s.gen
	s.mu.RUnlock()

	if current == nil {
		return ErrNotSignedIn
	}

	identity, grants := s.load(ctx, &types.AuthSession{
		Token:      current.Token,
		IdentityID: current.ID,
		Email:      current.Email,
		Name:       current.Name,
	})

	if !s.replaceIf(ctx, gen, identity, grants, expiresAt) {
		// signed out or replaced while loading; the newer state stands
		if !s.Snapshot().SignedIn() {
			return ErrNotSignedIn
		}
	}

	return nil
}

// ensureRestored runs the initial restore once; concurrent callers wait for it.
func (s *Store) ensureRestored(ctx context.Context) {
	s.initOnce.Do(func() {
		s.RestoreSession(ctx)
	})
}

func (s *Store) markRestored() {
	s.initOnce.Do(func() {
		s.mu.Lock()
		s.loading = false
		s.restored = true
		s.mu.Unlock()
	})
}

func (s *Store) touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

func (s *Store) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastSeen
}

// load builds the identity for an authenticated backend session. Profile or
// grant failures leave the role undefined and the grants empty.
func (s *Store) load(ctx context.Context, authSession *types.AuthSession) (*types.Identity, []types.CompanyGrant) {
	identity := &types.Identity{
		ID:    authSession.IdentityID,
		Name:  authSession.Name,
		Email: authSession.Email,
		Token: authSession.Token,
	}

	profile, err := s.profiles.FetchProfile(ctx, identity.ID)
	if err != nil {
		s.logger.Errorf("profile fetch failed for %s: %v", identity.ID, err)
		return identity, nil
	}

	grants, err := s.profiles.FetchCompanyGrants(ctx, identity.ID)
	if err != nil {
		s.logger.Errorf("company grants fetch failed for %s: %v", identity.ID, err)
		return identity, nil
	}

	if profile.Name != "" {
		identity.Name = profile.Name
	}
	if identity.Email == "" {
		identity.Email = profile.Email
	}
	identity.HomeCompanyID = profile.HomeCompanyID
	identity.Paid = profile.Paid

	if profile.Role.Valid() {
		identity.Role = profile.Role
	} else {
		s.logger.Warnf("profile %s has unknown role %q", identity.ID, profile.Role)
	}

	return identity, grants
}

// set replaces the in-memory state and starts a new generation.
func (s *Store) set(identity *types.Identity, grants []types.CompanyGrant, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.identity = identity
	s.grants = grants
	s.expiresAt = expiresAt
}

// replaceIf sets and persists the state only if no other change happened
// since generation gen was read.
func (s *Store) replaceIf(ctx context.Context, gen uint64, identity *types.Identity, grants []types.CompanyGrant, expiresAt time.Time) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	stale := s.gen != gen
	s.mu.RUnlock()

	if stale {
		return false
	}

	s.set(identity, grants, expiresAt)
	s.persist(ctx)

	return true
}

// persist saves the current state. Callers hold writeMu.
func (s *Store) persist(ctx context.Context) {
	s.mu.RLock()
	if s.identity == nil {
		s.mu.RUnlock()
		return
	}
	identity := *s.identity
	record := &types.SnapshotRecord{
		Identity:      &identity,
		CompanyGrants: append([]types.CompanyGrant(nil), s.grants...),
		SavedAt:       s.now(),
		ExpiresAt:     s.expiresAt,
	}
	s.mu.RUnlock()

	if err := s.storage.Save(ctx, s.key, record); err != nil {
		s.logger.Errorf("failed to save session snapshot: %v", err)
	}
}

func (s *Store) invalidate(ctx context.Context, reason string) {
	s.writeMu.Lock()
	s.set(nil, nil, time.Time{})
	if err := s.storage.Clear(ctx, s.key); err != nil {
		s.logger.Errorf("failed to clear session snapshot: %v", err)
	}
	s.writeMu.Unlock()

	s.logger.Security().SessionInvalidated(reason)
}

func (s *Store) reportAvailability(up bool) {
	v := 0.0
	if up {
		v = 1
	}
	_ = s.monitor.SetDependencyAvailability(map[string]string{"component": "auth_backend"}, v)
}

func (s *Store) authError(err error) *AuthError {
	switch {
	case errors.Is(err, kratos.ErrInvalidCredentials):
		return newAuthError(InvalidCredentials, err)
	case errors.Is(err, kratos.ErrBackendUnavailable):
		return newAuthError(NetworkUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded):
		return newAuthError(NetworkUnavailable, err)
	}

	s.logger.Errorf("unexpected sign-in failure: %v", err)
	return newAuthError(Unknown, err)
}

const defaultLifetime = 12 * time.Hour

// NewStore returns a signed-out Store bound to key. Its first RestoreSession
// reports IsLoading until it completes.
func NewStore(key string, lifetime time.Duration, auth AuthBackendInterface, profiles ProfileStoreInterface, storage DurableStorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Store {
	s := new(Store)

	s.key = key
	s.lifetime = lifetime
	if s.lifetime <= 0 {
		s.lifetime = defaultLifetime
	}

	s.auth = auth
	s.profiles = profiles
	s.storage = storage

	s.now = time.Now
	s.lastSeen = s.now()

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
