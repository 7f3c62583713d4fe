// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package guard

import (
	"github.com/canonical/medpay-admin/pkg/access"
	"github.com/canonical/medpay-admin/pkg/session"
)

const (
	LoginPath   = "/login"
	LandingPath = "/dashboard"
)

type State int

const (
	Loading State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// StateOf derives the guard state from a session snapshot.
func StateOf(snapshot session.Snapshot) State {
	switch {
	case snapshot.IsLoading:
		return Loading
	case snapshot.SignedIn():
		return Authenticated
	default:
		return Unauthenticated
	}
}

type Route struct {
	Name      string
	Path      string
	AdminOnly bool
	Public    bool
}

type Outcome int

const (
	Allow Outcome = iota
	Wait
	Redirect
)

// Decision is the result of guarding one navigation. Target is set only on Redirect.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Decide gates a navigation to route. Denials never surface as errors, the caller
// is sent to the sign-in screen or to the landing screen instead.
func Decide(snapshot session.Snapshot, route Route) Decision {
	switch StateOf(snapshot) {
	case Loading:
		return Decision{Outcome: Wait}
	case Unauthenticated:
		if route.Public {
			return Decision{Outcome: Allow}
		}
		return Decision{Outcome: Redirect, Target: LoginPath}
	}

	if route.Public && route.Path == LoginPath {
		return Decision{Outcome: Redirect, Target: LandingPath}
	}

	if route.AdminOnly && !access.IsAdmin(snapshot.Identity) {
		return Decision{Outcome: Redirect, Target: LandingPath}
	}

	return Decision{Outcome: Allow}
}
