// Package config loads the optional .vfsc.yaml file that controls
// non-semantic driver behavior: output path, build-cache toggle, and CLI
// colorization. Absence of the file is not an error; Default() applies.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level .vfsc.yaml document.
type Config struct {
	// Output is the path the driver writes the IR module to. Empty means
	// standard output.
	Output string `yaml:"output,omitempty"`

	// CacheEnabled toggles the sqlite-backed build cache (internal/buildcache).
	CacheEnabled bool `yaml:"cache_enabled"`

	// Color toggles ANSI colorization of CLI diagnostics when stderr is a
	// terminal. See cmd/vfsc for the isatty check this gates.
	Color bool `yaml:"color"`
}

// Default returns the configuration used when no .vfsc.yaml is found.
func Default() Config {
	return Config{CacheEnabled: true, Color: true}
}

// Load reads .vfsc.yaml from dir (the directory containing the source
// file being compiled, or the working directory). A missing file is not
// an error: Default() is returned unchanged.
func Load(dir string) (Config, error) {
	cfg := Default()

	path := filepath.Join(dir, ".vfsc.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
