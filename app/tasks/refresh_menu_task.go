package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BaronJose/tacosChilis/app/menu"
)

// RefreshMenuTask pulls the published sheet through the caching client, so a
// successful run both rebuilds the display model and refreshes the cached CSV
// for offline clients.
type RefreshMenuTask struct {
	Task
	fetcher *menu.Fetcher
	builder *menu.Builder
}

func NewRefreshMenuTask(fetcher *menu.Fetcher, builder *menu.Builder) *RefreshMenuTask {
	return &RefreshMenuTask{
		Task:    NewTask(TaskTypeRefreshMenu),
		fetcher: fetcher,
		builder: builder,
	}
}

func (t *RefreshMenuTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	rows, err := t.fetcher.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch menu data: %w", err)
	}

	model := t.builder.Run(rows)

	slog.Info("Task completed",
		"type", "RefreshMenu",
		"duration", t.GetDuration(),
		"rows", len(rows),
		"categories", len(model.Categories),
		"announcements", len(model.Announcements))

	return nil
}
