// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the audit trail written by admin handlers.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/store"
	"github.com/portfoliohq/siteadmin/internal/util"
)

// EventService records activity-log entries.
type EventService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(queries *store.Queries) *EventService {
	return &EventService{queries: queries, now: time.Now}
}

// LogEvent creates a new event log entry. userID 0 means no user.
// Failures are logged and returned; callers usually ignore them.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, userID int64, metadata map[string]any) error {
	metadataJSON := "{}"
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	e := &model.Event{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    util.NullID(userID),
		Metadata:  metadataJSON,
		CreatedAt: s.now().UTC(),
	}
	if err := s.queries.CreateEvent(ctx, e); err != nil {
		slog.Error("failed to record event", "error", err, "category", category, "message", message)
		return err
	}
	return nil
}

// LogInfo records an info-level event.
func (s *EventService) LogInfo(ctx context.Context, category, message string, userID int64, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, category, message, userID, metadata)
}

// LogWarning records a warning-level event.
func (s *EventService) LogWarning(ctx context.Context, category, message string, userID int64, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelWarning, category, message, userID, metadata)
}

// LogAuthEvent records an authentication event.
func (s *EventService) LogAuthEvent(ctx context.Context, level, message string, userID int64, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryAuth, message, userID, metadata)
}
