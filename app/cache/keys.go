package cache

import (
	"net/url"
)

// BusterParam is the cache-busting query parameter pages append to sheet
// requests to defeat intermediary caches.
const BusterParam = "t"

// StripBuster removes the cache-busting parameter and re-encodes the query
// so organic fetches and manual prefetches converge on the same cache key.
func StripBuster(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	q := u.Query()
	q.Del(BusterParam)
	u.RawQuery = q.Encode()

	return u.String()
}
