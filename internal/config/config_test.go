package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load with no .vfsc.yaml: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %#v, want Default() = %#v", cfg, Default())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	contents := "output: out.ll\ncache_enabled: false\ncolor: false\n"
	if err := os.WriteFile(filepath.Join(dir, ".vfsc.yaml"), []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{Output: "out.ll", CacheEnabled: false, Color: false}
	if cfg != want {
		t.Errorf("Load() = %#v, want %#v", cfg, want)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".vfsc.yaml"), []byte("color: false\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Color {
		t.Errorf("color should be overridden to false")
	}
	if !cfg.CacheEnabled {
		t.Errorf("cache_enabled should keep its Default() value of true when absent from the file")
	}
}
