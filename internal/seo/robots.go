// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo checks and builds robots.txt content.
package seo

import (
	"fmt"
	"strings"
)

// RobotsConfig holds configuration for robots.txt generation.
type RobotsConfig struct {
	DisallowAll   bool     // Block all crawlers
	DisallowPaths []string // Extra paths to disallow
	ExtraRules    string   // Additional custom rules, appended verbatim
	SitemapURL    string
}

// RobotsBuilder builds robots.txt content.
type RobotsBuilder struct {
	config RobotsConfig
}

// NewRobotsBuilder creates a new robots.txt builder.
func NewRobotsBuilder(config RobotsConfig) *RobotsBuilder {
	return &RobotsBuilder{config: config}
}

// Build generates the robots.txt content.
func (b *RobotsBuilder) Build() string {
	var sb strings.Builder
	sb.WriteString("User-agent: *\n")

	if b.config.DisallowAll {
		sb.WriteString("Disallow: /\n")
	} else {
		for _, path := range b.config.DisallowPaths {
			sb.WriteString("Disallow: ")
			sb.WriteString(path)
			sb.WriteString("\n")
		}
		sb.WriteString("Allow: /\n")
	}

	if b.config.ExtraRules != "" {
		sb.WriteString("\n")
		sb.WriteString(b.config.ExtraRules)
		if !strings.HasSuffix(b.config.ExtraRules, "\n") {
			sb.WriteString("\n")
		}
	}

	if b.config.SitemapURL != "" && !b.config.DisallowAll {
		sb.WriteString("\nSitemap: ")
		sb.WriteString(b.config.SitemapURL)
		sb.WriteString("\n")
	}

	return sb.String()
}

// AdminRobots is served by the back office itself; nothing here is indexable.
func AdminRobots() string {
	return NewRobotsBuilder(RobotsConfig{DisallowAll: true}).Build()
}

var robotsDirectives = map[string]bool{
	"user-agent":  true,
	"allow":       true,
	"disallow":    true,
	"sitemap":     true,
	"crawl-delay": true,
	"host":        true,
	"clean-param": true,
}

// LineError reports the first malformed line of a robots.txt body.
type LineError struct {
	Line   int
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// ValidateRobots checks that every non-blank, non-comment line is a known
// "Field: value" directive and that rules follow a User-agent line.
// Empty input is valid.
func ValidateRobots(text string) error {
	seenAgent := false
	for i, raw := range strings.Split(text, "\n") {
		line := raw
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		field, value, ok := strings.Cut(line, ":")
		if !ok {
			return &LineError{Line: i + 1, Reason: `expected "Field: value"`}
		}
		field = strings.ToLower(strings.TrimSpace(field))
		value = strings.TrimSpace(value)

		if !robotsDirectives[field] {
			return &LineError{Line: i + 1, Reason: fmt.Sprintf("unknown directive %q", field)}
		}

		switch field {
		case "user-agent":
			if value == "" {
				return &LineError{Line: i + 1, Reason: "User-agent needs a value"}
			}
			seenAgent = true
		case "allow", "disallow":
			if !seenAgent {
				return &LineError{Line: i + 1, Reason: "rule before any User-agent"}
			}
			if value != "" && !strings.HasPrefix(value, "/") && !strings.HasPrefix(value, "*") {
				return &LineError{Line: i + 1, Reason: "path must start with /"}
			}
		case "sitemap":
			if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
				return &LineError{Line: i + 1, Reason: "Sitemap must be an absolute URL"}
			}
		}
	}
	return nil
}
