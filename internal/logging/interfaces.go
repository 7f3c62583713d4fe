// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

type LoggerInterface interface {
	Errorf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Debugf(string, ...interface{})
	Fatalf(string, ...interface{})
	Error(...interface{})
	Info(...interface{})
	Warn(...interface{})
	Debug(...interface{})
	Fatal(...interface{})
	Security() SecurityLoggerInterface
	Sync() error
}

// SecurityLoggerInterface emits audit events, field names follow the OWASP logging vocabulary.
type SecurityLoggerInterface interface {
	AuthnLoginSuccess(userID string)
	AuthnLoginFailure(email, reason string)
	AuthnLogout(userID string)
	AuthzFailure(userID, resource string)
	SessionRestored(userID string)
	SessionInvalidated(reason string)
	SystemStartup()
	SystemShutdown()
}
