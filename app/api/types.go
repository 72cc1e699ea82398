package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/BaronJose/tacosChilis/app/cache"
	"github.com/BaronJose/tacosChilis/app/menu"
	"github.com/BaronJose/tacosChilis/app/tasks"
)

type WorkerInterface interface {
	HandleMessage(ctx context.Context, msg cache.Message) error
	Stats(ctx context.Context) map[string]interface{}
}

var _ WorkerInterface = (*cache.Worker)(nil)

type Handler struct {
	fetcher    *menu.Fetcher
	builder    *menu.Builder
	worker     WorkerInterface
	notifier   *cache.Notifier
	siteClient *http.Client
	origin     *url.URL
	scheduler  tasks.TaskSchedulerInterface
}
