// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDebugLogger(t *testing.T) {
	logger := NewLogger("DEBUG")
	if !logger.Desugar().Core().Enabled(zap.DebugLevel) {
		t.Fatal("expected debug level to be enabled")
	}
}

func TestInvalidLevel(t *testing.T) {
	logger := NewLogger("invalid")
	if logger.Desugar().Core().Enabled(zap.WarnLevel) {
		t.Fatal("expected invalid level to fall back to error")
	}
	if !logger.Desugar().Core().Enabled(zap.ErrorLevel) {
		t.Fatal("expected error level to be enabled")
	}
}

func TestSecurityLoggerEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := newSecurityLogger(zap.New(core))

	s.AuthnLoginFailure("admin@medpay.com", "invalid credentials")
	s.AuthzFailure("user-1", "route:/usuarios")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["type"] != "security" {
		t.Errorf("expected type security, got %v", fields["type"])
	}
	if fields["event"] != "authn_login_fail:admin@medpay.com" {
		t.Errorf("unexpected event %v", fields["event"])
	}
	if entries[1].Level != zap.WarnLevel {
		t.Errorf("expected authz failure at warn level, got %v", entries[1].Level)
	}
}

func TestNoopLogger(t *testing.T) {
	logger := NewNoopLogger()
	logger.Infof("nothing %s", "here")
	logger.Security().SystemStartup()
}
