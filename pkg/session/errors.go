// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package session

import (
	"errors"
)

var (
	ErrSnapshotNotFound = errors.New("session snapshot not found")
	ErrNotSignedIn      = errors.New("session is not signed in")
)

type AuthErrorKind int

const (
	InvalidCredentials AuthErrorKind = iota + 1
	NetworkUnavailable
	Unknown
)

func (k AuthErrorKind) String() string {
	switch k {
	case InvalidCredentials:
		return "invalid_credentials"
	case NetworkUnavailable:
		return "network_unavailable"
	default:
		return "unknown"
	}
}

// AuthError is a declined sign-in. Message is safe to show to the user.
type AuthError struct {
	Kind    AuthErrorKind
	Message string

	err error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.err
}

func newAuthError(kind AuthErrorKind, err error) *AuthError {
	e := &AuthError{Kind: kind, err: err}

	switch kind {
	case InvalidCredentials:
		e.Message = "E-mail ou senha inválidos."
	case NetworkUnavailable:
		e.Message = "Não foi possível conectar ao servidor de autenticação. Tente novamente."
	default:
		e.Message = "Não foi possível entrar. Tente novamente mais tarde."
	}

	return e
}
