package cache

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"path"
	"strings"

	"github.com/BaronJose/tacosChilis/app/site"
)

var _ http.RoundTripper = (*Transport)(nil)

var imageExtensions = map[string]bool{
	".avif": true,
	".gif":  true,
	".ico":  true,
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".svg":  true,
	".webp": true,
}

// Transport intercepts every outgoing GET and applies a caching strategy
// per resource class: stale-while-revalidate for the sheet endpoint,
// cache-first for images and same-origin page assets, passthrough for
// everything else. Non-GET requests are never intercepted. Consumers see a
// plain http.RoundTripper; the caching is invisible to them.
type Transport struct {
	base     http.RoundTripper
	store    Store
	notifier *Notifier

	sheetURL  *url.URL
	origin    *url.URL
	indexKey  string
	dynamicNS string
	staticNS  string
}

func NewTransport(base http.RoundTripper, store Store, notifier *Notifier, s *site.Site) (*Transport, error) {
	sheetURL, err := url.Parse(s.SheetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid sheet URL: %w", err)
	}

	origin, err := url.Parse(s.OriginURL)
	if err != nil {
		return nil, fmt.Errorf("invalid origin URL: %w", err)
	}

	if base == nil {
		base = http.DefaultTransport
	}

	return &Transport{
		base:      base,
		store:     store,
		notifier:  notifier,
		sheetURL:  sheetURL,
		origin:    origin,
		indexKey:  origin.ResolveReference(&url.URL{Path: "/index.html"}).String(),
		dynamicNS: DynamicNamespace(s.CacheVersion),
		staticNS:  StaticNamespace(s.CacheVersion),
	}, nil
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.base.RoundTrip(req)
	}

	switch {
	case t.isSheetRequest(req.URL):
		return t.staleWhileRevalidate(req)
	case isImageRequest(req.URL):
		return t.cacheFirst(req, t.dynamicNS, false)
	case t.isSameOrigin(req.URL):
		return t.cacheFirst(req, t.staticNS, true)
	default:
		return t.base.RoundTrip(req)
	}
}

func (t *Transport) isSheetRequest(u *url.URL) bool {
	return u.Host == t.sheetURL.Host && strings.HasPrefix(u.Path, t.sheetURL.Path)
}

func (t *Transport) isSameOrigin(u *url.URL) bool {
	return u.Host == t.origin.Host
}

func isImageRequest(u *url.URL) bool {
	return imageExtensions[strings.ToLower(path.Ext(u.Path))]
}

// staleWhileRevalidate serves a warm entry immediately and refreshes it in
// the background; the caller never waits on the network when the cache is
// warm. The detached refresh is observable only through the notifier.
func (t *Transport) staleWhileRevalidate(req *http.Request) (*http.Response, error) {
	key := StripBuster(req.URL.String())

	cached, ok, err := t.store.Match(req.Context(), t.dynamicNS, key)
	if err != nil {
		slog.Warn("Cache read failed", "namespace", t.dynamicNS, "key", key, "error", err)
		ok = false
	}

	if ok {
		resp, decodeErr := readCachedResponse(cached, req)
		if decodeErr == nil {
			// The request context dies with the caller, so the background
			// refresh carries its own.
			go t.revalidate(req.Clone(context.Background()), key)
			return resp, nil
		}

		slog.Warn("Dropping undecodable cache entry", "key", key, "error", decodeErr)
		if err := t.store.Delete(req.Context(), t.dynamicNS, key); err != nil {
			slog.Warn("Cache delete failed", "key", key, "error", err)
		}
	}

	// Cold cache: the caller has to wait on the network, and a network
	// failure propagates.
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusOK {
		t.cachePut(req.Context(), t.dynamicNS, key, resp)
		t.notifier.Broadcast(CSVUpdated())
	}

	return resp, nil
}

func (t *Transport) revalidate(req *http.Request, key string) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		slog.Debug("Background sheet refresh failed", "key", key, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("Background sheet refresh skipped", "key", key, "status", resp.StatusCode)
		return
	}

	data, err := httputil.DumpResponse(resp, true)
	if err != nil {
		slog.Warn("Failed to snapshot refreshed response", "key", key, "error", err)
		return
	}

	if err := t.store.Put(context.Background(), t.dynamicNS, key, data); err != nil {
		slog.Warn("Cache write failed", "namespace", t.dynamicNS, "key", key, "error", err)
		return
	}

	t.notifier.Broadcast(CSVUpdated())
}

func (t *Transport) cacheFirst(req *http.Request, namespace string, navigationFallback bool) (*http.Response, error) {
	key := req.URL.String()

	cached, ok, err := t.store.Match(req.Context(), namespace, key)
	if err != nil {
		slog.Warn("Cache read failed", "namespace", namespace, "key", key, "error", err)
	} else if ok {
		resp, decodeErr := readCachedResponse(cached, req)
		if decodeErr == nil {
			return resp, nil
		}
		slog.Warn("Dropping undecodable cache entry", "key", key, "error", decodeErr)
		if err := t.store.Delete(req.Context(), namespace, key); err != nil {
			slog.Warn("Cache delete failed", "key", key, "error", err)
		}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		if navigationFallback && isNavigation(req) {
			return t.degradedNavigation(req), nil
		}
		return nil, err
	}

	if resp.StatusCode == http.StatusOK {
		t.cachePut(req.Context(), namespace, key, resp)
	}

	return resp, nil
}

// degradedNavigation serves the cached markup entry point when a navigation
// fails on both cache and network, or a synthetic 503 when even that is
// missing.
func (t *Transport) degradedNavigation(req *http.Request) *http.Response {
	cached, ok, err := t.store.Match(req.Context(), t.staticNS, t.indexKey)
	if err == nil && ok {
		if resp, decodeErr := readCachedResponse(cached, req); decodeErr == nil {
			slog.Info("Serving cached entry point for failed navigation", "url", req.URL.String())
			return resp
		}
	}

	body := "Offline: the requested page is not cached."
	header := http.Header{}
	header.Set("Content-Type", "text/plain; charset=utf-8")

	return &http.Response{
		Status:        "503 Service Unavailable",
		StatusCode:    http.StatusServiceUnavailable,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

// cachePut snapshots the response and stores it. Write failures are logged
// and swallowed; the response is still returned to the caller. DumpResponse
// leaves the body readable for the caller.
func (t *Transport) cachePut(ctx context.Context, namespace, key string, resp *http.Response) {
	data, err := httputil.DumpResponse(resp, true)
	if err != nil {
		slog.Warn("Failed to snapshot response for cache", "key", key, "error", err)
		return
	}

	if err := t.store.Put(ctx, namespace, key, data); err != nil {
		slog.Warn("Cache write failed", "namespace", namespace, "key", key, "error", err)
	}
}

func readCachedResponse(data []byte, req *http.Request) (*http.Response, error) {
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(data)), req)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cached response: %w", err)
	}
	return resp, nil
}

func isNavigation(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "text/html")
}
