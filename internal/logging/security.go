// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
)

const securityLoggerName = "security"

type SecurityLogger struct {
	l *zap.Logger
}

func (s *SecurityLogger) event(event, level, description string, fields ...zap.Field) {
	fields = append(
		fields,
		zap.String("type", "security"),
		zap.String("event", event),
		zap.String("level", level),
	)

	if level == "WARN" {
		s.l.Warn(description, fields...)
		return
	}
	s.l.Info(description, fields...)
}

func (s *SecurityLogger) AuthnLoginSuccess(userID string) {
	s.event("authn_login_success:"+userID, "INFO", "user signed in", zap.String("user_id", userID))
}

func (s *SecurityLogger) AuthnLoginFailure(email, reason string) {
	s.event("authn_login_fail:"+email, "WARN", "sign in failed", zap.String("reason", reason))
}

func (s *SecurityLogger) AuthnLogout(userID string) {
	s.event("authn_logout:"+userID, "INFO", "user signed out", zap.String("user_id", userID))
}

func (s *SecurityLogger) AuthzFailure(userID, resource string) {
	s.event("authz_fail:"+userID+","+resource, "WARN", "access denied", zap.String("resource", resource))
}

func (s *SecurityLogger) SessionRestored(userID string) {
	s.event("session_restored:"+userID, "INFO", "session restored from storage")
}

func (s *SecurityLogger) SessionInvalidated(reason string) {
	s.event("session_invalidated", "WARN", "stored session rejected", zap.String("reason", reason))
}

func (s *SecurityLogger) SystemStartup() {
	s.event("sys_startup", "INFO", "service started")
}

func (s *SecurityLogger) SystemShutdown() {
	s.event("sys_shutdown", "INFO", "service stopped")
}

func newSecurityLogger(base *zap.Logger) *SecurityLogger {
	return &SecurityLogger{l: base.Named(securityLoggerName)}
}
