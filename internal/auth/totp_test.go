// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"encoding/base32"
	"strings"
	"testing"
	"time"
)

func TestGenerateTOTPSecret(t *testing.T) {
	a := GenerateTOTPSecret()
	b := GenerateTOTPSecret()
	want := base32.StdEncoding.WithPadding(base32.NoPadding).EncodedLen(TOTPSecretBytes)
	if len(a) != want {
		t.Errorf("secret length = %d, want %d", len(a), want)
	}
	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(a)
	if err != nil {
		t.Fatalf("secret %q is not base32: %v", a, err)
	}
	if len(raw) != TOTPSecretBytes {
		t.Errorf("decoded secret = %d bytes, want %d", len(raw), TOTPSecretBytes)
	}
	if a == b {
		t.Error("two generated secrets should differ")
	}
}

func TestVerifyTOTP(t *testing.T) {
	secret := GenerateTOTPSecret()
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name string
		code string
		want bool
	}{
		{"current step", TOTPCode(secret, now), true},
		{"previous step", TOTPCode(secret, now.Add(-TOTPPeriod)), true},
		{"next step", TOTPCode(secret, now.Add(TOTPPeriod)), true},
		{"two steps old", TOTPCode(secret, now.Add(-3*TOTPPeriod)), false},
		{"empty", "", false},
		{"too short", "123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyTOTP(secret, tt.code, now); got != tt.want {
				t.Errorf("VerifyTOTP(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestVerifyTOTP_EmptySecret(t *testing.T) {
	if VerifyTOTP("", "123456", time.Now()) {
		t.Error("empty secret must never verify")
	}
}

func TestProvisioningURI(t *testing.T) {
	uri := ProvisioningURI("JBSWY3DPEHPK3PXP", "admin@example.com", "Site Admin")
	if !strings.HasPrefix(uri, "otpauth://totp/") {
		t.Errorf("uri = %q, want otpauth://totp/ prefix", uri)
	}
	if !strings.Contains(uri, "secret=JBSWY3DPEHPK3PXP") {
		t.Errorf("uri = %q, missing secret", uri)
	}
}

func TestQRCodeDataURI(t *testing.T) {
	uri, err := QRCodeDataURI("otpauth://totp/test?secret=JBSWY3DPEHPK3PXP")
	if err != nil {
		t.Fatalf("QRCodeDataURI error: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("unexpected data uri prefix: %.40s", uri)
	}
}
