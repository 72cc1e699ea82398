package menu

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Fetcher downloads the published sheet and parses it into rows. Each
// request carries a fresh cache-busting query parameter to defeat
// intermediary caches; the caching transport the client is built on strips
// that parameter again before keying its own store.
type Fetcher struct {
	client      *http.Client
	sheetURL    string
	busterParam string
	userAgent   string
	parser      *Parser
}

func NewFetcher(client *http.Client, sheetURL, busterParam, userAgent string) *Fetcher {
	return &Fetcher{
		client:      client,
		sheetURL:    sheetURL,
		busterParam: busterParam,
		userAgent:   userAgent,
		parser:      NewParser(),
	}
}

func (f *Fetcher) Run(ctx context.Context) ([]Row, error) {
	requestURL, err := f.bustedURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return f.parser.Run(data)
}

func (f *Fetcher) bustedURL() (string, error) {
	u, err := url.Parse(f.sheetURL)
	if err != nil {
		return "", fmt.Errorf("invalid sheet URL: %w", err)
	}

	q := u.Query()
	q.Set(f.busterParam, strconv.FormatInt(time.Now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	return u.String(), nil
}
