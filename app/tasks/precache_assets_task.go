package tasks

import (
	"context"
	"log/slog"

	"github.com/BaronJose/tacosChilis/app/cache"
)

// PrecacheAssetsTask warms the static cache with the page-critical manifest.
type PrecacheAssetsTask struct {
	Task
	worker *cache.Worker
}

func NewPrecacheAssetsTask(worker *cache.Worker) *PrecacheAssetsTask {
	return &PrecacheAssetsTask{
		Task:   NewTask(TaskTypePrecacheAssets),
		worker: worker,
	}
}

func (t *PrecacheAssetsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	t.worker.Install(ctx)

	slog.Info("Task completed",
		"type", "PrecacheAssets",
		"duration", t.GetDuration())

	return nil
}
