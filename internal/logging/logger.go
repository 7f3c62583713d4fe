// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ LoggerInterface = (*Logger)(nil)

type Logger struct {
	*zap.SugaredLogger

	security *SecurityLogger
}

func (l *Logger) Security() SecurityLoggerInterface {
	return l.security
}

// NewLogger creates a JSON logger, an unknown level falls back to error.
func NewLogger(l string) *Logger {
	lvl, parseErr := zapcore.ParseLevel(l)
	if parseErr != nil {
		lvl = zapcore.ErrorLevel
	}

	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(lvl)
	c.EncoderConfig.TimeKey = "@timestamp"
	c.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	c.DisableStacktrace = lvl != zapcore.DebugLevel

	base, err := c.Build()
	if err != nil {
		panic(err)
	}

	logger := &Logger{
		SugaredLogger: base.Sugar(),
		security:      newSecurityLogger(base),
	}

	if parseErr != nil {
		logger.Warnf("invalid log level %q, falling back to error", l)
	}

	return logger
}
