package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/BaronJose/tacosChilis/app/site"
)

// Control messages accepted from pages.
const (
	MessageSkipWaiting = "SKIP_WAITING"
	MessageCacheCSV    = "CACHE_CSV"
)

var ErrUnknownMessage = errors.New("unknown message type")

type Message struct {
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
}

// Worker owns the cache generation lifecycle: installing the precache
// manifest, activating the current generation by evicting every other one,
// and handling control messages. Its configuration (namespace names,
// manifest) is fixed at construction so activation is purely a function of
// declared-vs-found namespace names.
type Worker struct {
	store    Store
	client   *http.Client
	notifier *Notifier

	origin    *url.URL
	precache  []string
	userAgent string
	version   string
	dynamicNS string
	staticNS  string
}

// NewWorker takes a client that bypasses the caching transport: install
// must fetch fresh copies, never inherit a previous generation's entries.
func NewWorker(store Store, client *http.Client, notifier *Notifier, s *site.Site, userAgent string) (*Worker, error) {
	origin, err := url.Parse(s.OriginURL)
	if err != nil {
		return nil, fmt.Errorf("invalid origin URL: %w", err)
	}

	return &Worker{
		store:     store,
		client:    client,
		notifier:  notifier,
		origin:    origin,
		precache:  append([]string(nil), s.Precache...),
		userAgent: userAgent,
		version:   s.CacheVersion,
		dynamicNS: DynamicNamespace(s.CacheVersion),
		staticNS:  StaticNamespace(s.CacheVersion),
	}, nil
}

// Install populates the static cache with the page-critical manifest.
// Failures are logged, never fatal: a partially warmed cache still beats an
// empty one, and activation must not be blocked.
func (w *Worker) Install(ctx context.Context) {
	warmed := 0
	for _, assetPath := range w.precache {
		assetURL := w.origin.ResolveReference(&url.URL{Path: assetPath}).String()
		if err := w.fetchAndStore(ctx, w.staticNS, assetURL, assetURL); err != nil {
			slog.Warn("Precache failed", "url", assetURL, "error", err)
			continue
		}
		warmed++
	}

	slog.Info("Install complete", "generation", w.version, "warmed", warmed, "manifest", len(w.precache))
}

// Activate evicts every cache namespace that does not belong to the current
// generation, then the server takes over all traffic immediately.
func (w *Worker) Activate(ctx context.Context) error {
	namespaces, err := w.store.Namespaces(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate cache namespaces: %w", err)
	}

	current := map[string]bool{
		w.dynamicNS: true,
		w.staticNS:  true,
	}

	for _, ns := range namespaces {
		if current[ns] {
			continue
		}
		if err := w.store.DeleteNamespace(ctx, ns); err != nil {
			slog.Warn("Failed to evict stale cache generation", "namespace", ns, "error", err)
			continue
		}
		slog.Info("Evicted stale cache generation", "namespace", ns)
	}

	slog.Info("Cache generation active", "generation", w.version)
	return nil
}

func (w *Worker) HandleMessage(ctx context.Context, msg Message) error {
	switch msg.Type {
	case MessageSkipWaiting:
		return w.Activate(ctx)

	case MessageCacheCSV:
		if msg.URL == "" {
			return fmt.Errorf("%s message requires a url", MessageCacheCSV)
		}

		// Strip the buster exactly like the fetch interceptor, so manual
		// prefetch and organic fetch converge on the same cache key.
		key := StripBuster(msg.URL)
		if err := w.fetchAndStore(ctx, w.dynamicNS, msg.URL, key); err != nil {
			return err
		}

		w.notifier.Broadcast(CSVUpdated())
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrUnknownMessage, msg.Type)
	}
}

// Stats reports entry counts per current namespace.
func (w *Worker) Stats(ctx context.Context) map[string]interface{} {
	stats := map[string]interface{}{
		"generation": w.version,
	}

	if count, err := w.store.Count(ctx, w.dynamicNS); err == nil {
		stats["dynamic_entries"] = count
	}
	if count, err := w.store.Count(ctx, w.staticNS); err == nil {
		stats["static_entries"] = count
	}

	return stats
}

func (w *Worker) fetchAndStore(ctx context.Context, namespace, rawURL, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", w.userAgent)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return fmt.Errorf("failed to snapshot response: %w", err)
	}

	if err := w.store.Put(ctx, namespace, key, data); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}

	return nil
}
