package site

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var defaultPrecache = []string{
	"/",
	"/index.html",
	"/styles.css",
	"/script.js",
	"/images/logo.png",
}

func Load(siteFile string) (*Site, error) {
	data, err := os.ReadFile(siteFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if s.CacheVersion == "" {
		s.CacheVersion = "v1"
	}
	if s.PlaceholderImage == "" {
		s.PlaceholderImage = "/images/placeholder.png"
	}
	if len(s.Precache) == 0 {
		s.Precache = append([]string(nil), defaultPrecache...)
	}

	if err := validate(&s); err != nil {
		return nil, fmt.Errorf("invalid site config: %w", err)
	}

	return &s, nil
}

func validate(s *Site) error {
	requiredFields := map[string]string{
		"sheet_url":  s.SheetURL,
		"origin_url": s.OriginURL,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	for fieldName, fieldValue := range requiredFields {
		u, err := url.Parse(fieldValue)
		if err != nil {
			return fmt.Errorf("%s is not a valid URL: %w", fieldName, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s must be an http(s) URL", fieldName)
		}
		if u.Host == "" {
			return fmt.Errorf("%s must include a host", fieldName)
		}
	}

	for i, path := range s.Precache {
		if !strings.HasPrefix(path, "/") {
			return fmt.Errorf("precache entry at index %d must be origin-relative (start with /): %s", i, path)
		}
	}

	return nil
}
