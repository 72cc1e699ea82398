package cache

import (
	"testing"
)

func TestStripBuster(t *testing.T) {
	url1 := "https://docs.google.com/spreadsheets/d/e/abc/pub?output=csv&t=1712345678901"
	url2 := "https://docs.google.com/spreadsheets/d/e/abc/pub?output=csv&t=1712345999999"

	key1 := StripBuster(url1)
	key2 := StripBuster(url2)

	if key1 != key2 {
		t.Errorf("URLs differing only in the buster must share a key: %s != %s", key1, key2)
	}

	expected := "https://docs.google.com/spreadsheets/d/e/abc/pub?output=csv"
	if key1 != expected {
		t.Errorf("Expected key %s, got %s", expected, key1)
	}
}

func TestStripBusterWithoutBuster(t *testing.T) {
	url := "https://docs.google.com/spreadsheets/d/e/abc/pub?output=csv"

	if key := StripBuster(url); key != url {
		t.Errorf("URL without a buster should be unchanged, got %s", key)
	}
}

func TestStripBusterNormalizesParameterOrder(t *testing.T) {
	key1 := StripBuster("https://example.com/pub?output=csv&gid=0")
	key2 := StripBuster("https://example.com/pub?gid=0&output=csv&t=42")

	if key1 != key2 {
		t.Errorf("Equivalent queries must share a key: %s != %s", key1, key2)
	}
}

func TestStripBusterUnparseableURL(t *testing.T) {
	raw := "http://%zz"

	if key := StripBuster(raw); key != raw {
		t.Errorf("Unparseable URL should pass through unchanged, got %s", key)
	}
}
