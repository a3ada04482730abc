// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

	// htmlSanitizer keeps the safe subset of HTML produced from post bodies.
	htmlSanitizer = bluemonday.UGCPolicy()

	// textSanitizer strips all markup.
	textSanitizer = bluemonday.StrictPolicy()
)

// renderMarkdown converts Markdown to sanitised HTML.
func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	// #nosec G203 -- output passed through bluemonday
	return template.HTML(htmlSanitizer.SanitizeBytes(buf.Bytes())), nil
}

// plainText removes any markup from s. Entities are decoded again since the
// result is escaped by the templates.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textSanitizer.Sanitize(s)))
}
