package buildcache

import (
	"path/filepath"
	"testing"
)

func TestHashSourceDeterministicAndSensitiveToInput(t *testing.T) {
	a := HashSource("func Main() {}")
	b := HashSource("func Main() {}")
	if a != b {
		t.Errorf("HashSource should be deterministic for identical input, got %q and %q", a, b)
	}
	c := HashSource("func Main() { print 1; }")
	if a == c {
		t.Errorf("HashSource should differ for different input")
	}
}

func TestStoreAndLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.sqlite")
	cache, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cache.Close()

	key := HashSource("func Main() {}")

	if _, hit, err := cache.Lookup(key); err != nil || hit {
		t.Fatalf("Lookup on empty cache: hit=%v err=%v, want hit=false", hit, err)
	}

	if err := cache.Store(key, "; ir text", 1234); err != nil {
		t.Fatalf("Store: %v", err)
	}

	irText, hit, err := cache.Lookup(key)
	if err != nil || !hit {
		t.Fatalf("Lookup after Store: hit=%v err=%v, want hit=true", hit, err)
	}
	if irText != "; ir text" {
		t.Errorf("Lookup returned %q, want %q", irText, "; ir text")
	}
}

func TestStoreReplacesExistingEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.sqlite")
	cache, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cache.Close()

	key := HashSource("func Main() {}")
	if err := cache.Store(key, "first", 1); err != nil {
		t.Fatalf("Store first: %v", err)
	}
	if err := cache.Store(key, "second", 2); err != nil {
		t.Fatalf("Store second: %v", err)
	}

	irText, hit, err := cache.Lookup(key)
	if err != nil || !hit || irText != "second" {
		t.Fatalf("Lookup = %q, %v, %v, want second, true, nil", irText, hit, err)
	}
}
