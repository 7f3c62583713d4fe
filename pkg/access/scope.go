// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package access

import (
	"encoding/json"
	"sort"

	sq "github.com/Masterminds/squirrel"
)

// Scope is the set of companies a query may touch.
// The zero value is an empty restricted scope.
type Scope struct {
	unrestricted bool
	ids          map[string]struct{}
}

func Unrestricted() Scope {
	return Scope{unrestricted: true}
}

func Restricted(ids ...string) Scope {
	s := Scope{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s Scope) IsUnrestricted() bool {
	return s.unrestricted
}

// IsEmpty is true for a restricted scope with no companies.
func (s Scope) IsEmpty() bool {
	return !s.unrestricted && len(s.ids) == 0
}

func (s Scope) Contains(companyID string) bool {
	if s.unrestricted {
		return true
	}
	_, ok := s.ids[companyID]
	return ok
}

// IDs returns the enumerated ids sorted, nil when unrestricted.
func (s Scope) IDs() []string {
	if s.unrestricted {
		return nil
	}

	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// Apply restricts query to rows whose column is inside the scope.
func (s Scope) Apply(query sq.SelectBuilder, column string) sq.SelectBuilder {
	if s.unrestricted {
		return query
	}

	if len(s.ids) == 0 {
		return query.Where("1 = 0")
	}

	return query.Where(sq.Eq{column: s.IDs()})
}

type scopeJSON struct {
	Unrestricted bool     `json:"unrestricted"`
	CompanyIDs   []string `json:"company_ids"`
}

func (s Scope) MarshalJSON() ([]byte, error) {
	out := scopeJSON{Unrestricted: s.unrestricted}
	if !s.unrestricted {
		out.CompanyIDs = s.IDs()
	}
	return json.Marshal(out)
}
