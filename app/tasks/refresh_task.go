package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

// RefreshTask rebuilds one stream's cache so that client polls hit warm
// data instead of paying the upstream round trip.
type RefreshTask struct {
	Task
	refresher Refresher
}

func NewRefreshTask(stream string, refresher Refresher) *RefreshTask {
	return &RefreshTask{
		Task:      NewTask(stream),
		refresher: refresher,
	}
}

func (t *RefreshTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.refresher.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh stream: %w", err)
	}

	slog.Info("Task completed",
		"type", "RefreshStream",
		"stream", t.Stream,
		"duration", t.GetDuration())

	return nil
}
