// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterTTL       = 10 * time.Minute
	limiterPruneSize = 1024
)

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// Limiter throttles sign-in attempts per e-mail address.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	limit rate.Limit
	burst int
}

func (l *Limiter) Allow(email string) bool {
	key := strings.ToLower(strings.TrimSpace(email))
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.buckets) >= limiterPruneSize {
		l.prune(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now

	return b.lim.AllowN(now, 1)
}

func (l *Limiter) prune(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.seen) > limiterTTL {
			delete(l.buckets, k)
		}
	}
}

// NewLimiter allows perMinute attempts per address with the given burst.
// A non-positive perMinute disables throttling.
func NewLimiter(perMinute, burst int) *Limiter {
	l := new(Limiter)
	l.buckets = make(map[string]*bucket)
	l.burst = burst

	if perMinute <= 0 {
		l.limit = rate.Inf
	} else {
		l.limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	if l.burst <= 0 {
		l.burst = 1
	}

	return l
}
