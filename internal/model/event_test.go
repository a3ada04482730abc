// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
)

func TestEventSubject(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
		want     string
	}{
		{"empty", "", ""},
		{"empty object", "{}", ""},
		{"email wins", `{"name":"Burp","email":"a@example.com"}`, "a@example.com"},
		{"title", `{"post_id":3,"title":"Hello"}`, "Hello"},
		{"name", `{"id":9,"name":"nmap"}`, "nmap"},
		{"blank email skipped", `{"email":"","name":"x"}`, "x"},
		{"number", `{"name":42}`, "42"},
		{"no subject", `{"ip":"127.0.0.1"}`, ""},
		{"invalid json", `{not json`, ""},
		{"array", `["a"]`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Event{Metadata: tt.metadata}).Subject(); got != tt.want {
				t.Errorf("Subject() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultSettingsCoverSEOKeys(t *testing.T) {
	for _, key := range []string{
		SettingSEODefaultTitle,
		SettingSEOTitleSeparator,
		SettingSEODefaultDescription,
		SettingSEOGoogleVerification,
		SettingSEORobotsTxt,
	} {
		if _, ok := DefaultSettings[key]; !ok {
			t.Errorf("DefaultSettings missing %q", key)
		}
	}
}
