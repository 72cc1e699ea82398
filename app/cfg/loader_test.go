package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		Port:            "8080",
		BaseUrl:         "https://menu.example.com",
		UserAgent:       "Test Agent",
		WorkerCount:     3,
		RefreshInterval: 300,
		Version:         "test-version",
		SiteFile:        "./site.yml",
		CachePath:       "./cache.db",
		RedisAddr:       "localhost:6379",
		Timezone:        "UTC",
		Debug:           true,
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.BaseUrl != "https://menu.example.com" {
		t.Errorf("Expected base URL 'https://menu.example.com', got '%s'", cfg.BaseUrl)
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if cfg.WorkerCount != 3 {
		t.Errorf("Expected worker count 3, got %d", cfg.WorkerCount)
	}
	if cfg.RefreshInterval != 300 {
		t.Errorf("Expected refresh interval 300, got %d", cfg.RefreshInterval)
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
	if cfg.SiteFile != "./site.yml" {
		t.Errorf("Expected site file './site.yml', got '%s'", cfg.SiteFile)
	}
	if cfg.CachePath != "./cache.db" {
		t.Errorf("Expected cache path './cache.db', got '%s'", cfg.CachePath)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("Expected redis addr 'localhost:6379', got '%s'", cfg.RedisAddr)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Expected timezone 'UTC', got '%s'", cfg.Timezone)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}
