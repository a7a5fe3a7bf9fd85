// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// EventCleanupSchedule runs the event cleanup daily at 03:00.
const EventCleanupSchedule = "0 3 * * *"

// EventPruner deletes old event log rows.
type EventPruner interface {
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// EventCleanup returns a job that deletes events older than retentionDays.
func EventCleanup(pruner EventPruner, retentionDays int, logger *slog.Logger) Job {
	return func(ctx context.Context) error {
		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		n, err := pruner.DeleteEventsBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("deleting old events: %w", err)
		}
		logger.Info("cleaned up old events", "deleted", n, "older_than", cutoff.Format("2006-01-02"))
		return nil
	}
}
