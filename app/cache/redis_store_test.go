package cache

import (
	"strings"
	"testing"
)

func TestRedisEntryKey(t *testing.T) {
	store := &RedisStore{}

	key := store.entryKey("dynamic-v1", "https://example.com/pub?output=csv")
	if key != "dynamic-v1:https://example.com/pub?output=csv" {
		t.Errorf("Unexpected entry key: %s", key)
	}

	// URL keys contain colons; the namespace must still be recoverable as
	// everything before the first one.
	parts := strings.SplitN(key, ":", 2)
	if parts[0] != "dynamic-v1" {
		t.Errorf("Expected namespace 'dynamic-v1', got '%s'", parts[0])
	}
	if parts[1] != "https://example.com/pub?output=csv" {
		t.Errorf("Expected original key to survive, got '%s'", parts[1])
	}
}
