// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"fmt"
	"strings"
	"testing"
)

func TestEnvSpec_StringMasksSecrets(t *testing.T) {
	testCases := []struct {
		name      string
		dsn       string
		expectDSN string
	}{
		{name: "url dsn", dsn: "postgres://medpay:pg-pass@db:5432/medpay", expectDSN: "postgres://medpay:xxxxx@db:5432/medpay"},
		{name: "keyword dsn", dsn: "host=db user=medpay password=pg-pass", expectDSN: "DSN:" + redacted},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			specs := &EnvSpec{
				DSN:             tc.dsn,
				SessionSecret:   "cookie-key",
				RedisPassword:   "redis-pass",
				KratosAdminURL:  "http://kratos-admin",
				AuthorizationSpec: AuthorizationSpec{
					OpenfgaApiToken: "fga-token",
				},
			}

			out := fmt.Sprintf("%v", specs)

			for _, secret := range []string{"cookie-key", "redis-pass", "fga-token", "pg-pass"} {
				if strings.Contains(out, secret) {
					t.Errorf("expected %q to be masked in %s", secret, out)
				}
			}
			if !strings.Contains(out, tc.expectDSN) {
				t.Errorf("expected %q in %s", tc.expectDSN, out)
			}
			if !strings.Contains(out, "http://kratos-admin") {
				t.Errorf("expected non-secret fields to be kept in %s", out)
			}
		})
	}
}

func TestEnvSpec_StringKeepsEmptySecretsEmpty(t *testing.T) {
	out := EnvSpec{}.String()
	if strings.Contains(out, redacted) {
		t.Errorf("expected no masking of empty values, got %s", out)
	}
}
