// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/mileusna/useragent"
)

// clientMetadata describes the requesting client for the audit log. Extra
// pairs are merged in as-is.
func clientMetadata(r *http.Request, extra map[string]any) map[string]any {
	ua := useragent.Parse(r.UserAgent())

	md := map[string]any{
		"ip":      r.RemoteAddr,
		"browser": orUnknown(ua.Name),
		"os":      orUnknown(ua.OS),
		"device":  deviceType(ua),
	}
	for k, v := range extra {
		md[k] = v
	}
	return md
}

func deviceType(ua useragent.UserAgent) string {
	switch {
	case ua.Bot:
		return "bot"
	case ua.Tablet:
		return "tablet"
	case ua.Mobile:
		return "mobile"
	default:
		return "desktop"
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
