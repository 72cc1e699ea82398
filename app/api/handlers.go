package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BaronJose/tacosChilis/app/cache"
	"github.com/BaronJose/tacosChilis/app/menu"
	"github.com/BaronJose/tacosChilis/app/site"
	"github.com/BaronJose/tacosChilis/app/tasks"
)

func NewHandler(fetcher *menu.Fetcher, builder *menu.Builder, worker WorkerInterface,
	notifier *cache.Notifier, siteClient *http.Client, s *site.Site,
	scheduler tasks.TaskSchedulerInterface) (*Handler, error) {
	origin, err := url.Parse(s.OriginURL)
	if err != nil {
		return nil, fmt.Errorf("invalid origin URL: %w", err)
	}

	return &Handler{
		fetcher:    fetcher,
		builder:    builder,
		worker:     worker,
		notifier:   notifier,
		siteClient: siteClient,
		origin:     origin,
		scheduler:  scheduler,
	}, nil
}

// GetMenu fetches the published sheet and returns the display model. The
// fetch goes through the caching client, so repeated requests are served
// stale-while-revalidate.
func (h *Handler) GetMenu(c *gin.Context) {
	rows, err := h.fetcher.Run(c.Request.Context())
	if err != nil {
		slog.Error("Menu fetch failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch menu data"})
		return
	}

	model := h.builder.Run(rows)

	c.Header("X-Menu-Categories", strconv.Itoa(len(model.Categories)))
	c.Header("X-Menu-Announcements", strconv.Itoa(len(model.Announcements)))

	c.JSON(http.StatusOK, model)
}

// GetEvents streams cache notices to the client as server-sent events.
func (h *Handler) GetEvents(c *gin.Context) {
	sub := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(sub)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case notice, ok := <-sub:
			if !ok {
				return false
			}
			c.SSEvent("message", notice)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) PostWorkerMessage(c *gin.Context) {
	var msg cache.Message
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message body"})
		return
	}

	if err := h.worker.HandleMessage(c.Request.Context(), msg); err != nil {
		if errors.Is(err, cache.ErrUnknownMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Error("Worker message failed", "type", msg.Type, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "type": msg.Type})
}

func (h *Handler) PostRefresh(c *gin.Context) {
	task := tasks.NewRefreshMenuTask(h.fetcher, h.builder)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing refresh task", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to enqueue refresh task"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"task": gin.H{
			"id":   task.ID,
			"type": task.Type,
		},
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	for key, value := range h.worker.Stats(c.Request.Context()) {
		health[key] = value
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := h.worker.Stats(c.Request.Context())
	stats["subscribers"] = h.notifier.SubscriberCount()

	c.JSON(http.StatusOK, stats)
}

// ServeSite proxies page and asset requests to the origin through the
// caching client, so same-origin assets are served cache-first and
// navigations degrade to the cached entry point when the origin is down.
func (h *Handler) ServeSite(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.Status(http.StatusMethodNotAllowed)
		return
	}

	target := h.origin.ResolveReference(&url.URL{
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
	})

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	req.Header.Set("Accept", c.GetHeader("Accept"))

	resp, err := h.siteClient.Do(req)
	if err != nil {
		slog.Error("Site proxy failed", "path", c.Request.URL.Path, "error", err)
		c.Status(http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		for _, value := range values {
			c.Writer.Header().Add(key, value)
		}
	}
	c.Status(resp.StatusCode)
	io.Copy(c.Writer, resp.Body)
}
