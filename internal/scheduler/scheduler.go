// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/portfoliohq/siteadmin/internal/model"
	"github.com/portfoliohq/siteadmin/internal/store"
)

// EventRetentionSchedule is the cron spec of the event cleanup job.
const EventRetentionSchedule = "@daily"

// Scheduler handles maintenance tasks such as pruning the activity log.
type Scheduler struct {
	queries       *store.Queries
	cron          *cron.Cron
	logger        *slog.Logger
	retentionDays int
	now           func() time.Time
}

// New creates a new scheduler instance. retentionDays of zero disables
// event pruning.
func New(queries *store.Queries, logger *slog.Logger, retentionDays int) *Scheduler {
	return &Scheduler{
		queries:       queries,
		cron:          cron.New(),
		logger:        logger,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	if s.retentionDays > 0 {
		_, err := s.cron.AddFunc(EventRetentionSchedule, func() {
			if _, err := s.PruneEvents(context.Background()); err != nil {
				s.logger.Error("failed to prune events", "error", err)
			}
		})
		if err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PruneEvents deletes events older than the retention window.
func (s *Scheduler) PruneEvents(ctx context.Context) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -s.retentionDays)
	n, err := s.queries.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("pruned old events",
			"category", model.EventCategorySystem,
			"deleted", n,
			"cutoff", cutoff.Format(time.RFC3339),
		)
	}
	return n, nil
}
