// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import "testing"

func TestLimiter_Allow(t *testing.T) {
	l := NewLimiter(1, 2)

	if !l.Allow("ana@medpay.com") || !l.Allow("ANA@medpay.com ") {
		t.Fatal("expected burst to be allowed")
	}
	if l.Allow("ana@medpay.com") {
		t.Fatal("expected third attempt to be throttled")
	}
	if !l.Allow("bruno@medpay.com") {
		t.Fatal("expected other addresses to be unaffected")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(0, 0)

	for i := 0; i < 50; i++ {
		if !l.Allow("ana@medpay.com") {
			t.Fatalf("attempt %d throttled with throttling disabled", i)
		}
	}
}
