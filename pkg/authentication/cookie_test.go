// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCookieCodec_Decode(t *testing.T) {
	codec := NewCookieCodec("secret", time.Hour, true)

	valid, err := codec.Encode("key-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	otherSecret, _ := NewCookieCodec("other", time.Hour, true).Encode("key-1")
	expired, _ := NewCookieCodec("secret", -time.Minute, true).Encode("key-1")

	tests := []struct {
		name        string
		raw         string
		expectedKey string
		expectedErr bool
	}{
		{name: "valid cookie", raw: valid, expectedKey: "key-1"},
		{name: "signed with another secret", raw: otherSecret, expectedErr: true},
		{name: "expired", raw: expired, expectedErr: true},
		{name: "tampered", raw: valid + "x", expectedErr: true},
		{name: "garbage", raw: "not-a-token", expectedErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := codec.Decode(tt.raw)

			if tt.expectedErr {
				if !errors.Is(err, ErrInvalidCookie) {
					t.Fatalf("expected ErrInvalidCookie, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if key != tt.expectedKey {
				t.Fatalf("expected key %q, got %q", tt.expectedKey, key)
			}
		})
	}
}

func TestCookieCodec_WriteRead(t *testing.T) {
	codec := NewCookieCodec("secret", time.Hour, true)

	rr := httptest.NewRecorder()
	if err := codec.Write(rr, "key-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}

	c := cookies[0]
	if c.Name != CookieName || !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes: %+v", c)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)

	key, ok := codec.Read(req)
	if !ok || key != "key-1" {
		t.Fatalf("expected key-1, got %q (%v)", key, ok)
	}

	if _, ok := codec.Read(httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("expected no key without cookie")
	}
}

func TestCookieCodec_Clear(t *testing.T) {
	rr := httptest.NewRecorder()
	NewCookieCodec("secret", time.Hour, false).Clear(rr)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected an expiring cookie, got %+v", cookies)
	}
}
