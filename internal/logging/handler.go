// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors WARN and above into
// the activity log shown on the dashboard.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/store"
	"github.com/portfoliohq/siteadmin/internal/util"
)

// EventLogHandler is a slog.Handler that wraps another handler and also
// writes records at or above its level to the events table.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
	attrs   []slog.Attr
}

// NewEventLogHandler creates a handler forwarding WARN and above.
func NewEventLogHandler(inner slog.Handler, queries *store.Queries) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, queries, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a handler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, queries *store.Queries, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: queries,
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeToEventLog(r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &EventLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
		attrs:   merged,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
		attrs:   h.attrs,
	}
}

// writeToEventLog persists r. A background context is used so the entry is
// kept even when the request was cancelled.
//
// When user_id names no existing user the entry is stored without the
// reference; the id stays in the metadata. Other write failures are reported
// through the wrapped handler.
func (h *EventLogHandler) writeToEventLog(r slog.Record) {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	event := &model.Event{
		Level:     eventLevel(r.Level),
		Category:  category(r.Message, attrs),
		Message:   r.Message,
		UserID:    userID(attrs),
		Metadata:  metadata(attrs),
		CreatedAt: r.Time.UTC(),
	}
	ctx := context.Background()
	err := h.queries.CreateEvent(ctx, event)
	if store.IsForeignKey(err) && event.UserID.Valid {
		event.ID = 0
		event.UserID = sql.NullInt64{}
		err = h.queries.CreateEvent(ctx, event)
	}
	if err != nil {
		h.reportWriteFailure(ctx, r, err)
	}
}

// reportWriteFailure logs a failed event insert on the wrapped handler only,
// so the failure cannot recurse into the events table.
func (h *EventLogHandler) reportWriteFailure(ctx context.Context, r slog.Record, err error) {
	rec := slog.NewRecord(time.Now(), slog.LevelError, "writing event log entry failed", 0)
	rec.AddAttrs(slog.String("message", r.Message), slog.String("error", err.Error()))
	_ = h.inner.Handle(ctx, rec)
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// categoryKeywords is checked in order against the lowercased message.
var categoryKeywords = []struct {
	category string
	words    []string
}{
	{model.EventCategoryAuth, []string{"auth", "login", "logout", "2fa", "lockout"}},
	{model.EventCategoryCybersecurity, []string{"cybersecurity", "advisory"}},
	{model.EventCategoryPost, []string{"post", "blog"}},
	{model.EventCategoryTool, []string{"tool", "resource"}},
	{model.EventCategoryPortfolio, []string{"portfolio", "project", "social", "personal", "skill"}},
	{model.EventCategorySettings, []string{"setting", "seo"}},
	{model.EventCategoryProfile, []string{"profile", "password"}},
}

// category returns an explicit "category" attribute or infers one from the
// message.
func category(msg string, attrs []slog.Attr) string {
	for _, a := range attrs {
		if a.Key == "category" {
			return a.Value.String()
		}
	}

	msg = strings.ToLower(msg)
	for _, c := range categoryKeywords {
		for _, w := range c.words {
			if strings.Contains(msg, w) {
				return c.category
			}
		}
	}
	return model.EventCategorySystem
}

func userID(attrs []slog.Attr) sql.NullInt64 {
	for _, a := range attrs {
		if a.Key != "user_id" {
			continue
		}
		switch a.Value.Kind() {
		case slog.KindInt64:
			return util.NullID(a.Value.Int64())
		case slog.KindUint64:
			return util.NullID(int64(a.Value.Uint64()))
		}
	}
	return sql.NullInt64{}
}

// metadata encodes every attribute except category as a JSON object.
func metadata(attrs []slog.Attr) string {
	m := make(map[string]any, len(attrs))
	for _, a := range attrs {
		if a.Key == "category" {
			continue
		}
		v := a.Value.Resolve()
		switch v.Kind() {
		case slog.KindString, slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindBool:
			m[a.Key] = v.Any()
		default:
			m[a.Key] = v.String()
		}
	}
	if len(m) == 0 {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}
