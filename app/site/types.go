package site

// Site describes the one restaurant site this service fronts: where its
// menu spreadsheet is published, where its static assets live, and which
// assets must be available offline.

type Site struct {
	// SheetURL is the published spreadsheet export returning
	// header-delimited CSV (first row = field names).
	SheetURL string `yaml:"sheet_url"`

	// OriginURL is the static site origin; requests to this host are
	// treated as same-origin page assets.
	OriginURL string `yaml:"origin_url"`

	// CacheVersion names the cache generation. Bumping it makes the next
	// activation garbage-collect every previous generation's entries.
	CacheVersion string `yaml:"cache_version"`

	// PlaceholderImage replaces a blank image on individual menu items.
	PlaceholderImage string `yaml:"placeholder_image"`

	// Precache lists origin-relative paths of page-critical assets fetched
	// fresh into the static cache on install.
	Precache []string `yaml:"precache"`
}
