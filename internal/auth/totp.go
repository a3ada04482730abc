// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
	"github.com/xlzd/gotp"
)

const (
	// TOTPSecretBytes is the amount of random data in a generated secret.
	// 20 bytes (160 bits) encode to a 32-character unpadded base32 string.
	TOTPSecretBytes = 20
	// TOTPPeriod is the time step of the default authenticator profile.
	TOTPPeriod = 30 * time.Second
	// TOTPSkew is how many steps before and after now are accepted.
	TOTPSkew = 1

	qrSize = 256
)

// GenerateTOTPSecret returns a new random secret, base32 encoded without
// padding.
func GenerateTOTPSecret() string {
	return gotp.RandomSecret(TOTPSecretBytes)
}

// VerifyTOTP checks code against secret at time now, tolerating clock drift
// of TOTPSkew steps.
func VerifyTOTP(secret, code string, now time.Time) bool {
	code = strings.ReplaceAll(strings.TrimSpace(code), " ", "")
	if secret == "" || len(code) != 6 {
		return false
	}
	totp := gotp.NewDefaultTOTP(secret)
	for i := -TOTPSkew; i <= TOTPSkew; i++ {
		at := now.Add(time.Duration(i) * TOTPPeriod).Unix()
		if subtle.ConstantTimeCompare([]byte(totp.At(at)), []byte(code)) == 1 {
			return true
		}
	}
	return false
}

// TOTPCode returns the code for secret at t.
func TOTPCode(secret string, t time.Time) string {
	return gotp.NewDefaultTOTP(secret).At(t.Unix())
}

// ProvisioningURI returns the otpauth:// URI understood by authenticator apps.
func ProvisioningURI(secret, account, issuer string) string {
	return gotp.NewDefaultTOTP(secret).ProvisioningUri(account, issuer)
}

// QRCodeDataURI renders uri as a PNG QR code embedded in a data: URI.
func QRCodeDataURI(uri string) (string, error) {
	png, err := qrcode.Encode(uri, qrcode.Medium, qrSize)
	if err != nil {
		return "", fmt.Errorf("encoding qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
